package mqtt

import (
	"context"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/workerpool"

	"github.com/gohornet/votereward/pkg/model/vote"
	mqttpkg "github.com/gohornet/votereward/pkg/mqtt"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/shutdown"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "MQTT",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

const (
	workerCount     = 1
	workerQueueSize = 10000
)

var (
	Plugin *node.Plugin
	deps   dependencies

	// publishing keeps the event order of the registry.
	eventsWorkerPool *workerpool.WorkerPool
)

type dependencies struct {
	dig.In
	NodeConfig *configuration.Configuration `name:"nodeConfig"`
	Registry   *vote.Registry
	MQTTBroker *mqttpkg.Broker
}

func provide(c *dig.Container) {

	type brokerDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	if err := c.Provide(func(deps brokerDeps) *mqttpkg.Broker {
		broker, err := mqttpkg.NewBroker(
			deps.NodeConfig.String(CfgMQTTBindAddress),
			deps.NodeConfig.Int(CfgMQTTWSPort),
			deps.NodeConfig.String(CfgMQTTWSPath),
			deps.NodeConfig.Int(CfgMQTTWorkerCount),
			func(topic []byte) {
				Plugin.LogDebugf("Subscribe to topic: %s", string(topic))
			},
			func(topic []byte) {
				Plugin.LogDebugf("Unsubscribe from topic: %s", string(topic))
			},
		)
		if err != nil {
			Plugin.LogPanicf("MQTT broker init failed! %s", err)
		}
		return broker
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

func configure() {
	eventsWorkerPool = workerpool.New(func(task workerpool.Task) {
		task.Param(0).(func())()
		task.Return(nil)
	}, workerpool.WorkerCount(workerCount), workerpool.QueueSize(workerQueueSize), workerpool.FlushTasksAtShutdown(true))
}

func submit(f func()) {
	if _, added := eventsWorkerPool.TrySubmit(f); !added {
		Plugin.LogWarn("MQTT event queue is full, dropping event")
	}
}

func run() {

	onVoteChanged := events.NewClosure(func(info *vote.VoteInfo) {
		submit(func() { onVoteInfo(info) })
	})

	onVoteSubmitted := events.NewClosure(func(event *vote.SubmissionEvent) {
		submit(func() { onSubmission(event) })
	})

	onPayoutEvent := events.NewClosure(func(event *vote.PayoutEvent) {
		submit(func() { onPayout(event) })
	})

	onAdminChanged := events.NewClosure(func(change *vote.AdminChange) {
		submit(func() { onAdminChange(change) })
	})

	if err := Plugin.Daemon().BackgroundWorker("MQTT Broker", func(ctx context.Context) {
		go func() {
			deps.MQTTBroker.Start()
			Plugin.LogInfof("Starting MQTT Broker (port %s) ... done", deps.MQTTBroker.Config().Port)
		}()

		if deps.MQTTBroker.Config().Port != "" {
			Plugin.LogInfof("You can now listen to MQTT via: http://%s:%s", deps.MQTTBroker.Config().Host, deps.MQTTBroker.Config().Port)
		}

		if deps.MQTTBroker.Config().WsPort != "" {
			Plugin.LogInfof("You can now listen to MQTT via: ws://%s:%s%s", deps.MQTTBroker.Config().Host, deps.MQTTBroker.Config().WsPort, deps.MQTTBroker.Config().WsPath)
		}

		<-ctx.Done()
		Plugin.LogInfo("Stopping MQTT Broker ...")
		Plugin.LogInfo("Stopping MQTT Broker ... done")
	}, shutdown.PriorityMQTTBroker); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}

	if err := Plugin.Daemon().BackgroundWorker("MQTT Events", func(ctx context.Context) {
		Plugin.LogInfo("Starting MQTT Events ... done")

		registryEvents := deps.Registry.Events
		registryEvents.VoteCreated.Attach(onVoteChanged)
		registryEvents.VoteEdited.Attach(onVoteChanged)
		registryEvents.VoteFinalized.Attach(onVoteChanged)
		registryEvents.VoteSubmitted.Attach(onVoteSubmitted)
		registryEvents.RewardPaid.Attach(onPayoutEvent)
		registryEvents.EscrowRefunded.Attach(onPayoutEvent)
		registryEvents.AdminChanged.Attach(onAdminChanged)

		eventsWorkerPool.Start()

		<-ctx.Done()

		registryEvents.VoteCreated.Detach(onVoteChanged)
		registryEvents.VoteEdited.Detach(onVoteChanged)
		registryEvents.VoteFinalized.Detach(onVoteChanged)
		registryEvents.VoteSubmitted.Detach(onVoteSubmitted)
		registryEvents.RewardPaid.Detach(onPayoutEvent)
		registryEvents.EscrowRefunded.Detach(onPayoutEvent)
		registryEvents.AdminChanged.Detach(onAdminChanged)

		eventsWorkerPool.StopAndWait()

		Plugin.LogInfo("Stopping MQTT Events ... done")
	}, shutdown.PriorityMQTTBroker); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}
