package votes

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/node"
)

const (
	// the principal which is allowed to initialize the vote registry
	CfgProtocolDeployer = "protocol.deployer"
	// the interval in which expired votes are finalized (0 to disable)
	CfgVotesSweepInterval = "votes.sweepInterval"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgProtocolDeployer, "", "the principal which is allowed to initialize the vote registry")
			fs.Duration(CfgVotesSweepInterval, time.Minute, "the interval in which expired votes are finalized (0 to disable)")
			return fs
		}(),
	},
	Masked: nil,
}
