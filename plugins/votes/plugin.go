package votes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/restapi"
	restapiplugin "github.com/gohornet/votereward/plugins/restapi"
)

const (
	// RouteRegistry is the route to get the state of the vote registry.
	// GET returns whether the registry is initialized, its admin and the next vote id.
	RouteRegistry = "/registry"

	// RouteRegistryInit is the route to initialize the vote registry.
	// POST initializes the registry with the caller as admin. Only the deployer may call it.
	RouteRegistryInit = "/registry/init"

	// RouteRegistryAdmin is the route to change the admin of the vote registry.
	// PUT hands the admin role to another principal. Only the admin may call it.
	RouteRegistryAdmin = "/registry/admin"

	// RouteRegistrySweep is the route to finalize all expired votes.
	// POST returns the number of finalized votes.
	RouteRegistrySweep = "/registry/sweep"

	// RouteVotes is the route to list and create votes.
	// GET returns the ids of all votes, filtered by the optional status query parameter.
	// POST creates a new vote funded by the caller.
	RouteVotes = "/votes"

	// RouteVote is the route to access a single vote by its ID.
	// GET returns the vote info including its tallies and accounting.
	// PUT edits a vote that did not start yet. Only the creator or the admin may call it.
	RouteVote = "/votes/:" + restapi.ParameterVoteID

	// RouteVoteSubmissions is the route to submit a vote.
	// POST adds the caller's submission for the given option.
	RouteVoteSubmissions = "/votes/:" + restapi.ParameterVoteID + "/submissions"

	// RouteVoteFinalize is the route to finalize a vote.
	// POST distributes the rewards and refunds the remainder. Only the creator or the admin may call it.
	RouteVoteFinalize = "/votes/:" + restapi.ParameterVoteID + "/finalize"

	// RouteVoteOption is the route to get the submissions on an option of a vote.
	// GET returns the voters and their submission timestamps.
	RouteVoteOption = "/votes/:" + restapi.ParameterVoteID + "/options/:" + restapi.ParameterOptionIndex

	// RouteVotePayouts is the route to get the transfers out of the escrow of a vote.
	// GET returns the rewards, refunds and withdrawals in execution order.
	RouteVotePayouts = "/votes/:" + restapi.ParameterVoteID + "/payouts"

	// RouteVoterVotes is the route to get the votes a principal submitted to.
	// GET returns the vote ids.
	RouteVoterVotes = "/voters/:" + restapi.ParameterPrincipal + "/votes"

	// RouteVoterVote is the route to check whether a principal submitted to a vote.
	// GET returns whether a submission exists.
	RouteVoterVote = "/voters/:" + restapi.ParameterPrincipal + "/votes/:" + restapi.ParameterVoteID
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "Votes API",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Configure: configure,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies
)

type dependencies struct {
	dig.In
	Registry                *vote.Registry
	RestRouteManager        *restapiplugin.RestRouteManager
	RestAPILimitsMaxResults int `name:"restAPILimitsMaxResults"`
}

func configure() {
	setupRoutes(deps.RestRouteManager.AddRoute("/api/votes/v1"))
}

func setupRoutes(routeGroup *echo.Group) {

	routeGroup.GET(RouteRegistry, func(c echo.Context) error {
		return restapi.JSONResponse(c, http.StatusOK, getRegistry())
	})

	routeGroup.POST(RouteRegistryInit, func(c echo.Context) error {
		resp, err := initRegistry(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.PUT(RouteRegistryAdmin, func(c echo.Context) error {
		resp, err := setAdmin(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteRegistrySweep, func(c echo.Context) error {
		resp, err := sweepExpiredVotes(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteVotes, func(c echo.Context) error {
		resp, err := getVoteIDs(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteVotes, func(c echo.Context) error {
		resp, err := createVote(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusCreated, resp)
	})

	routeGroup.GET(RouteVote, func(c echo.Context) error {
		resp, err := getVoteInfo(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.PUT(RouteVote, func(c echo.Context) error {
		resp, err := editVote(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteVoteSubmissions, func(c echo.Context) error {
		resp, err := submitVote(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusCreated, resp)
	})

	routeGroup.POST(RouteVoteFinalize, func(c echo.Context) error {
		resp, err := finalizeVote(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteVoteOption, func(c echo.Context) error {
		resp, err := getVoteOptionActions(c)
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

	routeGroup.GET(RouteVoterVotes, func(c echo.Context) error {
		resp, err := getVoterVotes(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteVoterVote, func(c echo.Context) error {
		resp, err := hasSubmitted(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}
