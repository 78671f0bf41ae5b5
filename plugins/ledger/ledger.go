package ledger

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/ledger"
	"github.com/gohornet/votereward/pkg/restapi"
)

// maps the errors of the ledger onto HTTP errors.
func httpError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidToken),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrBalanceOverflow):
		return errors.WithMessagef(restapi.ErrInvalidParameter, "%s", err)
	default:
		return err
	}
}

func getBalances(c echo.Context) (*BalancesResponse, error) {
	principal, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]uint64)
	if err := deps.Ledger.ForEachBalance(principal, func(token string, amount uint64) bool {
		balances[token] = amount
		return true
	}); err != nil {
		return nil, err
	}

	return &BalancesResponse{
		Principal: principal,
		Balances:  balances,
	}, nil
}

func getBalance(c echo.Context) (*BalanceResponse, error) {
	principal, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	token, err := restapi.ParseTokenParam(c)
	if err != nil {
		return nil, err
	}

	amount, err := deps.Ledger.Balance(principal, token)
	if err != nil {
		return nil, httpError(err)
	}

	return &BalanceResponse{
		Principal: principal,
		Token:     token,
		Amount:    amount,
		Escrow:    deps.Registry.IsEscrowAccount(principal),
	}, nil
}

func transfer(c echo.Context) (*BalanceResponse, error) {
	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	request := &TransferRequest{}
	if err := restapi.ParseJSONRequest(c, request); err != nil {
		return nil, err
	}

	if request.To.IsNull() {
		return nil, errors.WithMessage(restapi.ErrInvalidParameter, "recipient not specified")
	}

	// funds only enter and leave an escrow through the vote registry
	if deps.Registry.IsEscrowAccount(caller) || deps.Registry.IsEscrowAccount(request.To) {
		return nil, errors.WithMessage(restapi.ErrForbidden, "escrow accounts can not be used for transfers")
	}

	if err := deps.Ledger.Transfer(caller, request.To, request.Token, request.Amount); err != nil {
		return nil, httpError(err)
	}

	amount, err := deps.Ledger.Balance(caller, request.Token)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		Principal: caller,
		Token:     request.Token,
		Amount:    amount,
	}, nil
}

func mint(c echo.Context) (*BalanceResponse, error) {
	if !faucet.enabled {
		return nil, errors.WithMessage(restapi.ErrServiceNotImplemented, "faucet is disabled")
	}

	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	if deps.Registry.IsEscrowAccount(caller) {
		return nil, errors.WithMessage(restapi.ErrForbidden, "escrow accounts can not use the faucet")
	}

	request := &FaucetRequest{}
	if err := restapi.ParseJSONRequest(c, request); err != nil {
		return nil, err
	}

	if request.Amount > faucet.maxAmount {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "amount %d exceeds the faucet limit %d", request.Amount, faucet.maxAmount)
	}

	if err := deps.Ledger.Mint(caller, request.Token, request.Amount); err != nil {
		return nil, httpError(err)
	}

	amount, err := deps.Ledger.Balance(caller, request.Token)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		Principal: caller,
		Token:     request.Token,
		Amount:    amount,
	}, nil
}

func getSupply(c echo.Context) (*SupplyResponse, error) {
	token, err := restapi.ParseTokenParam(c)
	if err != nil {
		return nil, err
	}

	supply, err := deps.Ledger.Supply(token)
	if err != nil {
		return nil, httpError(err)
	}

	return &SupplyResponse{
		Token:  token,
		Supply: supply,
	}, nil
}
