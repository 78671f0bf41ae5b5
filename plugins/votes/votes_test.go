package votes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

type testServer struct {
	t    *testing.T
	env  *test.VoteTestEnv
	echo *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	env := test.NewVoteTestEnv(t, 1000)

	deps = dependencies{
		Registry:                env.Registry(),
		RestAPILimitsMaxResults: 100,
	}

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
	setupRoutes(e.Group("/api/votes/v1"))

	return &testServer{t: t, env: env, echo: e}
}

func (s *testServer) request(method string, path string, caller *account.Principal, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(s.t, err)
	}

	req := httptest.NewRequest(method, "/api/votes/v1"+path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != nil {
		req.Header.Set(headerCaller, caller.String())
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) decode(rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func principal(p account.Principal) *account.Principal {
	return &p
}

func TestVoteLifecycleRoutes(t *testing.T) {
	s := newTestServer(t)

	params := s.env.NewParameters(vote.RewardPolicyFIFO, 10, 2, "a", "b")

	rec := s.request(http.MethodPost, "/votes", principal(test.Creator), &CreateVoteRequest{Parameters: *params})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := &CreateVoteResponse{}
	s.decode(rec, created)
	require.Equal(t, uint64(0), created.VoteID)
	s.env.AssertEscrow(0, 20)

	// not started yet
	rec = s.request(http.MethodPost, "/votes/0/submissions", principal(test.Voter1), &SubmitVoteRequest{OptionIdx: 0})
	require.Equal(t, http.StatusConflict, rec.Code)

	s.env.StartVote(0)

	rec = s.request(http.MethodPost, "/votes/0/submissions", principal(test.Voter1), &SubmitVoteRequest{OptionIdx: 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	info := &vote.VoteInfo{}
	s.decode(rec, info)
	require.Equal(t, uint64(10), info.Paid)
	require.Equal(t, []uint64{0, 1}, info.Tallies)
	require.Equal(t, vote.StatusOpen, info.Status)

	rec = s.request(http.MethodPost, "/votes/0/submissions", principal(test.Voter1), &SubmitVoteRequest{OptionIdx: 0})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.request(http.MethodPost, "/votes/0/submissions", principal(test.Voter2), &SubmitVoteRequest{OptionIdx: 7})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.request(http.MethodGet, "/voters/"+test.Voter1.String()+"/votes", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	voteIDs := &VoteIDsResponse{}
	s.decode(rec, voteIDs)
	require.Equal(t, []uint64{0}, voteIDs.VoteIDs)

	rec = s.request(http.MethodGet, "/voters/"+test.Voter1.String()+"/votes/0", nil, nil)
	submitted := &SubmittedResponse{}
	s.decode(rec, submitted)
	require.True(t, submitted.Submitted)

	rec = s.request(http.MethodGet, "/votes/0/options/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	actions := &vote.OptionActions{}
	s.decode(rec, actions)
	require.Equal(t, []account.Principal{test.Voter1}, actions.Voters)

	s.env.Clock.Advance(1)

	rec = s.request(http.MethodPost, "/votes/0/finalize", principal(test.Voter2), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(http.MethodPost, "/votes/0/finalize", principal(test.Creator), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	info = &vote.VoteInfo{}
	s.decode(rec, info)
	require.True(t, info.Finalized)
	require.Equal(t, uint64(10), info.Refunded)

	rec = s.request(http.MethodGet, "/votes/0/payouts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payouts := &struct {
		Token   string `json:"token"`
		Payouts []struct {
			Recipient account.Principal `json:"recipient"`
			Amount    uint64            `json:"amount"`
			Kind      string            `json:"kind"`
		} `json:"payouts"`
	}{}
	s.decode(rec, payouts)
	require.Equal(t, test.RewardToken, payouts.Token)
	require.Len(t, payouts.Payouts, 2)
	require.Equal(t, "reward", payouts.Payouts[0].Kind)
	require.Equal(t, test.Voter1, payouts.Payouts[0].Recipient)
	require.Equal(t, "refund", payouts.Payouts[1].Kind)
	require.Equal(t, test.Creator, payouts.Payouts[1].Recipient)

	rec = s.request(http.MethodGet, "/votes?status=finalized", nil, nil)
	voteIDs = &VoteIDsResponse{}
	s.decode(rec, voteIDs)
	require.Equal(t, []uint64{0}, voteIDs.VoteIDs)

	rec = s.request(http.MethodGet, "/votes?status=open", nil, nil)
	voteIDs = &VoteIDsResponse{}
	s.decode(rec, voteIDs)
	require.Empty(t, voteIDs.VoteIDs)
}

func TestEditVoteRoute(t *testing.T) {
	s := newTestServer(t)

	voteID := s.env.CreateVote(s.env.NewParameters(vote.RewardPolicyWinner, 10, 2, "a", "b"))

	params := s.env.NewParameters(vote.RewardPolicyWinner, 10, 5, "a", "b", "c")

	rec := s.request(http.MethodPut, "/votes/0", principal(test.Voter1), params)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(http.MethodPut, "/votes/0", principal(test.Creator), params)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	info := &vote.VoteInfo{}
	s.decode(rec, info)
	require.Equal(t, []string{"a", "b", "c"}, info.Options)
	s.env.AssertEscrow(voteID, 50)
}

func TestVoteRouteErrors(t *testing.T) {
	s := newTestServer(t)

	params := s.env.NewParameters(vote.RewardPolicyFIFO, 10, 2, "a")

	tests := []struct {
		name   string
		method string
		path   string
		caller *account.Principal
		body   interface{}
		code   int
	}{
		{"unknown vote", http.MethodGet, "/votes/5", nil, nil, http.StatusNotFound},
		{"invalid vote id", http.MethodGet, "/votes/abc", nil, nil, http.StatusBadRequest},
		{"invalid status filter", http.MethodGet, "/votes?status=pending", nil, nil, http.StatusBadRequest},
		{"invalid principal", http.MethodGet, "/voters/xyz/votes", nil, nil, http.StatusBadRequest},
		{"create without caller", http.MethodPost, "/votes", nil, &CreateVoteRequest{Parameters: *params}, http.StatusUnauthorized},
		{"create with explicit id", http.MethodPost, "/votes", principal(test.Creator), &CreateVoteRequest{VoteID: new(uint64), Parameters: *params}, http.StatusCreated},
		{"create with used id", http.MethodPost, "/votes", principal(test.Creator), &CreateVoteRequest{VoteID: new(uint64), Parameters: *params}, http.StatusBadRequest},
		{"create unfunded", http.MethodPost, "/votes", principal(test.Voter4), &CreateVoteRequest{Parameters: *params}, http.StatusBadRequest},
		{"finalize unknown vote", http.MethodPost, "/votes/9/finalize", principal(test.Creator), nil, http.StatusNotFound},
		{"finalize before start", http.MethodPost, "/votes/0/finalize", principal(test.Creator), nil, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.request(tt.method, tt.path, tt.caller, tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestRegistryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(http.MethodGet, "/registry", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	registry := &RegistryResponse{}
	s.decode(rec, registry)
	require.True(t, registry.Initialized)
	require.Equal(t, principal(test.Deployer), registry.Admin)

	rec = s.request(http.MethodPost, "/registry/init", principal(test.Deployer), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.request(http.MethodPut, "/registry/admin", principal(test.Voter1), &SetAdminRequest{Admin: test.Voter1})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(http.MethodPut, "/registry/admin", principal(test.Deployer), &SetAdminRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.request(http.MethodPut, "/registry/admin", principal(test.Deployer), &SetAdminRequest{Admin: test.Voter1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	registry = &RegistryResponse{}
	s.decode(rec, registry)
	require.Equal(t, principal(test.Voter1), registry.Admin)

	rec = s.request(http.MethodPost, "/registry/sweep", principal(test.Voter1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sweep := &SweepResponse{}
	s.decode(rec, sweep)
	require.Equal(t, 0, sweep.Finalized)
}
