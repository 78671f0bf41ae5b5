package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/jwt"
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/model/vote/test"
	"github.com/gohornet/votereward/pkg/restapi"
)

const headerCaller = "X-Caller"

func newTestEcho(t *testing.T, faucetEnabled bool) (*test.VoteTestEnv, *echo.Echo) {
	env := test.NewVoteTestEnv(t, 1000)

	deps = dependencies{
		Ledger:   env.Ledger,
		Registry: env.Registry(),
	}
	faucet = faucetSettings{enabled: faucetEnabled, maxAmount: 500}

	e := echo.New()
	e.HTTPErrorHandler = restapi.ErrorHandler()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if caller := c.Request().Header.Get(headerCaller); caller != "" {
				c.Set(jwt.ContextKeySubject, caller)
			}
			return next(c)
		}
	})
	setupRoutes(e.Group("/api/ledger/v1"))

	return env, e
}

func request(t *testing.T, e *echo.Echo, method string, path string, caller account.Principal, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, "/api/ledger/v1"+path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if !caller.IsNull() {
		req.Header.Set(headerCaller, caller.String())
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTransfer(t *testing.T) {
	env, e := newTestEcho(t, false)

	rec := request(t, e, http.MethodPost, "/transfers", test.Creator, &TransferRequest{To: test.Voter1, Token: test.RewardToken, Amount: 300})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := &BalanceResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	require.Equal(t, uint64(700), resp.Amount)
	env.AssertBalance(test.Voter1, 300)

	rec = request(t, e, http.MethodPost, "/transfers", test.Voter1, &TransferRequest{To: test.Voter2, Token: test.RewardToken, Amount: 301})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, e, http.MethodPost, "/transfers", account.NullPrincipal, &TransferRequest{To: test.Voter2, Token: test.RewardToken, Amount: 1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(t, e, http.MethodGet, "/accounts/"+test.Voter1.String()+"/balances", account.NullPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	balances := &BalancesResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), balances))
	require.Equal(t, map[string]uint64{test.RewardToken: 300}, balances.Balances)
}

func TestTransferRefusesEscrowAccounts(t *testing.T) {
	env, e := newTestEcho(t, false)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a"))
	v, err := env.Registry().Vote(voteID)
	require.NoError(t, err)

	rec := request(t, e, http.MethodPost, "/transfers", test.Creator, &TransferRequest{To: v.Escrow(), Token: test.RewardToken, Amount: 1})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(t, e, http.MethodPost, "/transfers", v.Escrow(), &TransferRequest{To: test.Voter1, Token: test.RewardToken, Amount: 1})
	require.Equal(t, http.StatusForbidden, rec.Code)

	env.AssertEscrow(voteID, 100)

	rec = request(t, e, http.MethodGet, "/accounts/"+v.Escrow().String()+"/balances/"+url.PathEscape(test.RewardToken), account.NullPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := &BalanceResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	require.Equal(t, uint64(100), resp.Amount)
	require.True(t, resp.Escrow)
}

func TestFaucet(t *testing.T) {
	_, e := newTestEcho(t, false)

	rec := request(t, e, http.MethodPost, "/faucet", test.Voter1, &FaucetRequest{Token: test.RewardToken, Amount: 10})
	require.Equal(t, http.StatusNotImplemented, rec.Code)

	env, e := newTestEcho(t, true)

	rec = request(t, e, http.MethodPost, "/faucet", test.Voter1, &FaucetRequest{Token: test.RewardToken, Amount: 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.AssertBalance(test.Voter1, 10)

	rec = request(t, e, http.MethodPost, "/faucet", test.Voter1, &FaucetRequest{Token: test.RewardToken, Amount: 501})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, e, http.MethodGet, "/supply/"+url.PathEscape(test.RewardToken), account.NullPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	supply := &SupplyResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), supply))
	require.Equal(t, uint64(1010), supply.Supply)
}
