package ledger

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/gohornet/votereward/pkg/model/ledger"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/restapi"
	restapiplugin "github.com/gohornet/votereward/plugins/restapi"
	"github.com/iotaledger/hive.go/configuration"
)

const (
	// RouteAccountBalances is the route to get all balances of an account.
	// GET returns the non-zero balances per token.
	RouteAccountBalances = "/accounts/:" + restapi.ParameterPrincipal + "/balances"

	// RouteAccountBalance is the route to get the balance of an account in a single token.
	// GET returns the balance.
	RouteAccountBalance = "/accounts/:" + restapi.ParameterPrincipal + "/balances/:" + restapi.ParameterToken

	// RouteTransfers is the route to move funds between accounts.
	// POST transfers funds of the caller to another account. Escrow accounts are refused.
	RouteTransfers = "/transfers"

	// RouteFaucet is the route to mint tokens.
	// POST mints tokens to the caller, if the faucet is enabled.
	RouteFaucet = "/faucet"

	// RouteSupply is the route to get the total supply of a token.
	// GET returns the amount ever minted.
	RouteSupply = "/supply/:" + restapi.ParameterToken
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "Ledger",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
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
	NodeConfig       *configuration.Configuration `name:"nodeConfig"`
	Ledger           *ledger.Ledger
	Registry         *vote.Registry
	RestRouteManager *restapiplugin.RestRouteManager
}

type faucetSettings struct {
	enabled   bool
	maxAmount uint64
}

var faucet faucetSettings

func configure() {
	maxAmount := deps.NodeConfig.Int(CfgRestAPIFaucetMaxAmount)
	if maxAmount < 0 {
		Plugin.LogPanicf("%s must not be negative", CfgRestAPIFaucetMaxAmount)
	}

	faucet = faucetSettings{
		enabled:   deps.NodeConfig.Bool(CfgRestAPIFaucetEnabled),
		maxAmount: uint64(maxAmount),
	}

	if faucet.enabled {
		Plugin.LogWarnf("faucet is enabled, every caller can mint up to %d tokens per request", faucet.maxAmount)
	}

	setupRoutes(deps.RestRouteManager.AddRoute("/api/ledger/v1"))
}

func setupRoutes(routeGroup *echo.Group) {

	routeGroup.GET(RouteAccountBalances, func(c echo.Context) error {
		resp, err := getBalances(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteAccountBalance, func(c echo.Context) error {
		resp, err := getBalance(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteTransfers, func(c echo.Context) error {
		resp, err := transfer(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteFaucet, func(c echo.Context) error {
		resp, err := mint(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteSupply, func(c echo.Context) error {
		resp, err := getSupply(c)
		if err != nil {
			return err
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}
