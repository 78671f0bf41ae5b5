package votes

import (
	"context"
	"time"

	"go.uber.org/dig"

	"github.com/gohornet/votereward/pkg/database"
	"github.com/gohornet/votereward/pkg/metrics"
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/ledger"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/shutdown"
	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/logger"
)

const (
	// StorePrefixLedger is the realm of the ledger balances in the database.
	StorePrefixLedger byte = 0
	// StorePrefixVotes is the realm of the vote registry in the database.
	StorePrefixVotes byte = 1
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Votes",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	NodeConfig  *configuration.Configuration `name:"nodeConfig"`
	Ledger      *ledger.Ledger
	Registry    *vote.Registry
	VoteMetrics *metrics.VoteMetrics
}

func provide(c *dig.Container) {

	type ledgerDeps struct {
		dig.In
		Database *database.Database
	}

	if err := c.Provide(func(deps ledgerDeps) *ledger.Ledger {
		return ledger.New(
			deps.Database.KVStore().WithRealm([]byte{StorePrefixLedger}),
			ledger.WithLogger(logger.NewLogger("Ledger")),
		)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	type registryDeps struct {
		dig.In
		NodeConfig               *configuration.Configuration `name:"nodeConfig"`
		Database                 *database.Database
		Ledger                   *ledger.Ledger
		DatabaseAutoRevalidation bool `name:"databaseAutoRevalidation"`
	}

	if err := c.Provide(func(deps registryDeps) *vote.Registry {

		var deployer account.Principal
		if deployerStr := deps.NodeConfig.String(CfgProtocolDeployer); deployerStr != "" {
			var err error
			if deployer, err = account.ParsePrincipal(deployerStr); err != nil {
				CorePlugin.LogPanicf("invalid %s: %s", CfgProtocolDeployer, err)
			}
		} else {
			CorePlugin.LogWarnf("no %s configured, the vote registry can not be initialized", CfgProtocolDeployer)
		}

		registry, err := vote.NewRegistry(
			deps.Database.KVStore().WithRealm([]byte{StorePrefixVotes}),
			deps.Ledger,
			vote.WithLogger(CorePlugin.Logger()),
			vote.WithDeployer(deployer),
			vote.WithAutoRevalidation(deps.DatabaseAutoRevalidation),
		)
		if err != nil {
			CorePlugin.LogPanicf("vote registry initialization failed: %s", err)
		}
		return registry
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func() *metrics.VoteMetrics {
		return &metrics.VoteMetrics{}
	}); err != nil {
		CorePlugin.LogPanic(err)
	}
}

func configure() {
	deps.VoteMetrics.Attach(deps.Registry.Events)

	deps.Registry.Events.SweepFailed.Attach(events.NewClosure(func(failure *vote.SweepFailure) {
		CorePlugin.LogWarnf("finalizing expired vote %d failed: %s", failure.VoteID, failure.Error)
	}))

	if err := CorePlugin.Daemon().BackgroundWorker("Close ledger", func(ctx context.Context) {
		<-ctx.Done()

		CorePlugin.LogInfo("Flushing ledger ...")
		if err := deps.Ledger.Flush(); err != nil {
			CorePlugin.LogErrorf("Flushing ledger failed: %s", err)
		}
		CorePlugin.LogInfo("Flushing ledger ... done")
	}, shutdown.PriorityCloseLedger); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}

	if err := CorePlugin.Daemon().BackgroundWorker("Close vote registry", func(ctx context.Context) {
		<-ctx.Done()

		CorePlugin.LogInfo("Closing vote registry ...")
		if err := deps.Registry.CloseDatabase(); err != nil {
			CorePlugin.LogErrorf("Closing vote registry failed: %s", err)
		}
		CorePlugin.LogInfo("Closing vote registry ... done")
	}, shutdown.PriorityCloseRegistry); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}

func run() {

	sweepInterval := deps.NodeConfig.Duration(CfgVotesSweepInterval)
	if sweepInterval <= 0 {
		CorePlugin.LogInfo("periodic sweep of expired votes is disabled")
		return
	}

	if err := CorePlugin.Daemon().BackgroundWorker("Vote sweeper", func(ctx context.Context) {
		CorePlugin.LogInfof("Starting vote sweeper (interval %s) ... done", sweepInterval)

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				CorePlugin.LogInfo("Stopping vote sweeper ... done")
				return
			case <-ticker.C:
				if !deps.Registry.IsInitialized() {
					continue
				}
				if finalized := deps.Registry.SweepExpiredVotes(); finalized > 0 {
					CorePlugin.LogInfof("finalized %d expired votes", finalized)
				}
			}
		}
	}, shutdown.PriorityVoteSweeper); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}
