package database

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/node"
)

const (
	// the used database engine (pebble/mapdb)
	CfgDatabaseEngine = "db.engine"
	// the path to the database folder
	CfgDatabasePath = "db.path"
	// whether to revalidate the vote state against the ledger after an unclean shutdown instead of refusing to start
	CfgDatabaseAutoRevalidation = "db.autoRevalidation"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgDatabaseEngine, "pebble", "the used database engine (pebble/mapdb)")
			fs.String(CfgDatabasePath, "votedb", "the path to the database folder")
			fs.Bool(CfgDatabaseAutoRevalidation, false, "whether to revalidate the vote state against the ledger after an unclean shutdown instead of refusing to start")
			return fs
		}(),
	},
	Masked: nil,
}
