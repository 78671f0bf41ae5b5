package toolset

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/iotaledger/hive.go/configuration"
)

func escrowPrincipal(_ *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	creatorFlag := fs.String(FlagToolCreator, "", "the account that created the vote")
	voteIDFlag := fs.Uint64(FlagToolVoteID, 0, "the id of the vote")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolEscrowPrincipal)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s --%s %d", ToolEscrowPrincipal, FlagToolCreator, "0xc7ea70", FlagToolVoteID, 3))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*creatorFlag) == 0 {
		return fmt.Errorf("'%s' not specified", FlagToolCreator)
	}

	creator, err := account.ParsePrincipal(*creatorFlag)
	if err != nil {
		return errors.Wrapf(err, "invalid creator '%s'", *creatorFlag)
	}

	fmt.Println("Escrow account: ", account.EscrowPrincipal(creator, *voteIDFlag))

	return nil
}
