package indexer

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/indexer"
	"github.com/gohornet/votereward/pkg/restapi"
)

const (
	// RouteStatus is the route for getting the number of indexed events.
	// GET returns the event count.
	RouteStatus = "/status"

	// RoutePrincipalPayouts is the route for getting the transfers a principal received out of escrows.
	// GET returns the payouts, newest first (query parameters: "limit").
	RoutePrincipalPayouts = "/principals/:" + restapi.ParameterPrincipal + "/payouts"

	// RoutePrincipalSubmissions is the route for getting the submissions of a principal.
	// GET returns the submissions, newest first (query parameters: "limit").
	RoutePrincipalSubmissions = "/principals/:" + restapi.ParameterPrincipal + "/submissions"

	// RoutePrincipalVotes is the route for getting the votes a principal created.
	// GET returns the vote IDs.
	RoutePrincipalVotes = "/principals/:" + restapi.ParameterPrincipal + "/votes"

	// RouteVotePayouts is the route for getting the transfers out of a vote's escrow.
	// GET returns the payouts in the order they happened.
	RouteVotePayouts = "/votes/:" + restapi.ParameterVoteID + "/payouts"

	// RouteVoteSweepFailures is the route for getting the number of failed sweeps of a vote.
	// GET returns the count.
	RouteVoteSweepFailures = "/votes/:" + restapi.ParameterVoteID + "/sweepFailures"

	// RouteRewardTotals is the route for getting the rewards per recipient and token.
	// GET returns the totals, highest first (query parameters: "limit").
	RouteRewardTotals = "/rewards/totals"
)

func setupRoutes(routeGroup *echo.Group) {

	routeGroup.GET(RouteStatus, func(c echo.Context) error {
		resp, err := getStatus(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePrincipalPayouts, func(c echo.Context) error {
		resp, err := getPrincipalPayouts(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePrincipalSubmissions, func(c echo.Context) error {
		resp, err := getPrincipalSubmissions(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePrincipalVotes, func(c echo.Context) error {
		resp, err := getPrincipalVotes(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteVotePayouts, func(c echo.Context) error {
		resp, err := getVotePayouts(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteVoteSweepFailures, func(c echo.Context) error {
		resp, err := getVoteSweepFailures(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteRewardTotals, func(c echo.Context) error {
		resp, err := getRewardTotals(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}

func wrapQueryError(err error) error {
	return errors.WithMessagef(echo.ErrInternalServerError, "reading indexer failed: %s", err)
}

func getStatus(_ echo.Context) (*StatusResponse, error) {
	count, err := deps.Indexer.EventCount()
	if err != nil {
		return nil, wrapQueryError(err)
	}
	return &StatusResponse{EventCount: count}, nil
}

func getPrincipalPayouts(c echo.Context) (*PayoutsResponse, error) {
	principal, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	limit, err := restapi.ParseLimitQueryParam(c, deps.RestAPILimitsMaxResults)
	if err != nil {
		return nil, err
	}

	payouts, err := deps.Indexer.PayoutsByRecipient(principal, limit)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	return &PayoutsResponse{Payouts: payouts}, nil
}

func getPrincipalSubmissions(c echo.Context) (*SubmissionsResponse, error) {
	principal, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	limit, err := restapi.ParseLimitQueryParam(c, deps.RestAPILimitsMaxResults)
	if err != nil {
		return nil, err
	}

	submissions, err := deps.Indexer.SubmissionsByVoter(principal, limit)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	return &SubmissionsResponse{Submissions: submissions}, nil
}

func getPrincipalVotes(c echo.Context) (*VoteIDsResponse, error) {
	principal, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	voteIDs, err := deps.Indexer.VotesByCreator(principal)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if voteIDs == nil {
		voteIDs = []uint64{}
	}
	return &VoteIDsResponse{VoteIDs: voteIDs}, nil
}

func getVotePayouts(c echo.Context) (*PayoutsResponse, error) {
	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	payouts, err := deps.Indexer.PayoutsByVote(voteID)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	return &PayoutsResponse{Payouts: payouts}, nil
}

func getVoteSweepFailures(c echo.Context) (*SweepFailuresResponse, error) {
	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	failures, err := deps.Indexer.SweepFailures(voteID)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	return &SweepFailuresResponse{VoteID: voteID, Failures: failures}, nil
}

func getRewardTotals(c echo.Context) (*RewardTotalsResponse, error) {
	limit, err := restapi.ParseLimitQueryParam(c, deps.RestAPILimitsMaxResults)
	if err != nil {
		return nil, err
	}

	totals, err := deps.Indexer.RewardTotals(limit)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if totals == nil {
		totals = []*indexer.RecipientTotal{}
	}
	return &RewardTotalsResponse{Totals: totals}, nil
}
