package toolset

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/gohornet/votereward/pkg/jwt"
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/plugins/restapi"
	"github.com/iotaledger/hive.go/configuration"
)

func generateJWTApiToken(nodeConfig *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	principalFlag := fs.String(FlagToolPrincipal, "", "the account the token authenticates")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolJWTApi)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s", ToolJWTApi, FlagToolPrincipal, "0x1001"))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*principalFlag) == 0 {
		return fmt.Errorf("'%s' not specified", FlagToolPrincipal)
	}

	principal, err := account.ParsePrincipal(*principalFlag)
	if err != nil {
		return errors.Wrapf(err, "invalid principal '%s'", *principalFlag)
	}

	salt := nodeConfig.String(restapi.CfgRestAPIJWTAuthSalt)
	if len(salt) == 0 {
		return fmt.Errorf("'%s' should not be empty", restapi.CfgRestAPIJWTAuthSalt)
	}

	// API tokens do not expire.
	jwtAuth, err := jwt.NewAuth(restapi.JWTAudience, 0, salt)
	if err != nil {
		return errors.Wrap(err, "JWT auth initialization failed")
	}

	jwtToken, err := jwtAuth.IssueJWT(principal.String())
	if err != nil {
		return errors.Wrap(err, "issuing JWT token failed")
	}

	fmt.Println("Your API JWT token: ", jwtToken)

	return nil
}
