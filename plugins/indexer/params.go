package indexer

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/node"
)

const (
	// the path to the sqlite indexer database, empty keeps the index in memory
	CfgIndexerDatabasePath = "indexer.databasePath"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgIndexerDatabasePath, "indexerdb", "the path to the sqlite indexer database, empty keeps the index in memory")
			return fs
		}(),
	},
	Masked: nil,
}
