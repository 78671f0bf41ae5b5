package ledger

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/node"
)

const (
	// whether callers may mint tokens to themselves
	CfgRestAPIFaucetEnabled = "restAPI.faucetEnabled"
	// the maximum amount a single faucet request may mint
	CfgRestAPIFaucetMaxAmount = "restAPI.faucetMaxAmount"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.Bool(CfgRestAPIFaucetEnabled, false, "whether callers may mint tokens to themselves")
			fs.Int(CfgRestAPIFaucetMaxAmount, 1_000_000, "the maximum amount a single faucet request may mint")
			return fs
		}(),
	},
	Masked: nil,
}
