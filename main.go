package main

import (
	"github.com/gohornet/votereward/core/app"
	coredatabase "github.com/gohornet/votereward/core/database"
	"github.com/gohornet/votereward/core/gracefulshutdown"
	corevotes "github.com/gohornet/votereward/core/votes"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/plugins/indexer"
	"github.com/gohornet/votereward/plugins/ledger"
	"github.com/gohornet/votereward/plugins/mqtt"
	"github.com/gohornet/votereward/plugins/prometheus"
	"github.com/gohornet/votereward/plugins/restapi"
	"github.com/gohornet/votereward/plugins/votes"
)

func main() {
	node.Run(
		node.WithInitPlugin(app.InitPlugin),
		node.WithCorePlugins(
			gracefulshutdown.CorePlugin,
			coredatabase.CorePlugin,
			corevotes.CorePlugin,
		),
		node.WithPlugins(
			restapi.Plugin,
			votes.Plugin,
			ledger.Plugin,
			indexer.Plugin,
			mqtt.Plugin,
			prometheus.Plugin,
		),
	)
}
