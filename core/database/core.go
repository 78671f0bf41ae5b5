package database

import (
	"context"

	"go.uber.org/dig"

	"github.com/gohornet/votereward/pkg/database"
	"github.com/gohornet/votereward/pkg/metrics"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/shutdown"
	"github.com/iotaledger/hive.go/configuration"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Database",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	Database *database.Database
}

func provide(c *dig.Container) {

	type databaseDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	type databaseOut struct {
		dig.Out
		Database                 *database.Database
		DatabaseMetrics          *metrics.DatabaseMetrics
		DatabaseAutoRevalidation bool `name:"databaseAutoRevalidation"`
	}

	if err := c.Provide(func(deps databaseDeps) databaseOut {

		dbEngine, err := database.DatabaseEngine(deps.NodeConfig.String(CfgDatabaseEngine))
		if err != nil {
			CorePlugin.LogPanicf("%s", err)
		}

		dbPath := deps.NodeConfig.String(CfgDatabasePath)

		targetEngine, err := database.CheckDatabaseEngine(dbPath, true, dbEngine)
		if err != nil {
			CorePlugin.LogPanicf("%s", err)
		}

		dbMetrics := &metrics.DatabaseMetrics{}

		var db *database.Database
		switch targetEngine {
		case database.EnginePebble:
			db = newPebble(dbPath, dbMetrics)
		case database.EngineMapDB:
			db = newMapDB(dbMetrics)
		default:
			CorePlugin.LogPanicf("unknown database engine: %s, supported engines: pebble/mapdb", targetEngine)
		}

		return databaseOut{
			Database:                 db,
			DatabaseMetrics:          dbMetrics,
			DatabaseAutoRevalidation: deps.NodeConfig.Bool(CfgDatabaseAutoRevalidation),
		}
	}); err != nil {
		CorePlugin.LogPanicf("%s", err)
	}
}

func configure() {
	CorePlugin.LogInfof("using %s database engine", deps.Database.Engine())

	if err := CorePlugin.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		CorePlugin.LogInfo("Syncing database to disk...")
		if err := deps.Database.Close(); err != nil {
			CorePlugin.LogErrorf("Syncing database to disk failed: %s", err)
			return
		}
		CorePlugin.LogInfo("Syncing database to disk... done")
	}, shutdown.PriorityCloseDatabase); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}
