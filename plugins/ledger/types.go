package ledger

import (
	"github.com/gohornet/votereward/pkg/model/account"
)

// BalancesResponse defines the response of a GET RouteAccountBalances REST API call.
type BalancesResponse struct {
	Principal account.Principal `json:"principal"`
	// The non-zero balances per token.
	Balances map[string]uint64 `json:"balances"`
}

// BalanceResponse defines the response of a GET RouteAccountBalance REST API call.
type BalanceResponse struct {
	Principal account.Principal `json:"principal"`
	Token     string            `json:"token"`
	Amount    uint64            `json:"amount"`
	// Whether the account is the escrow of a vote.
	Escrow bool `json:"escrow"`
}

// TransferRequest defines the request of a POST RouteTransfers REST API call.
type TransferRequest struct {
	To     account.Principal `json:"to"`
	Token  string            `json:"token"`
	Amount uint64            `json:"amount"`
}

// FaucetRequest defines the request of a POST RouteFaucet REST API call.
type FaucetRequest struct {
	Token  string `json:"token"`
	Amount uint64 `json:"amount"`
}

// SupplyResponse defines the response of a GET RouteSupply REST API call.
type SupplyResponse struct {
	Token  string `json:"token"`
	Supply uint64 `json:"supply"`
}
