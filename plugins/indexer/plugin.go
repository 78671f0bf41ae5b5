package indexer

import (
	"context"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/votereward/pkg/indexer"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/shutdown"
	restapiplugin "github.com/gohornet/votereward/plugins/restapi"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "Indexer",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies
)

type dependencies struct {
	dig.In
	Indexer                 *indexer.Indexer
	Registry                *vote.Registry
	RestRouteManager        *restapiplugin.RestRouteManager
	RestAPILimitsMaxResults int `name:"restAPILimitsMaxResults"`
}

func provide(c *dig.Container) {

	type indexerDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	if err := c.Provide(func(deps indexerDeps) *indexer.Indexer {
		idx, err := indexer.NewIndexer(deps.NodeConfig.String(CfgIndexerDatabasePath), logger.NewLogger("Indexer"))
		if err != nil {
			Plugin.LogPanic(err)
		}
		return idx
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

func configure() {
	setupRoutes(deps.RestRouteManager.AddRoute("/api/indexer/v1"))

	if err := Plugin.Daemon().BackgroundWorker("Close Indexer database", func(ctx context.Context) {
		<-ctx.Done()

		Plugin.LogInfo("Syncing Indexer database to disk...")
		if err := deps.Indexer.CloseDatabase(); err != nil {
			Plugin.LogPanicf("Syncing Indexer database to disk... failed: %s", err)
		}
		Plugin.LogInfo("Syncing Indexer database to disk... done")
	}, shutdown.PriorityIndexer); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}

func run() {
	// events fired before this point were not indexed, the vote routes of the registry stay authoritative.
	deps.Indexer.Attach(deps.Registry.Events)
	Plugin.LogInfo("Starting Indexer ... done")
}
