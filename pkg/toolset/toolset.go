package toolset

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"
)

const (
	ToolJWTApi          = "jwt-api"
	ToolEscrowPrincipal = "escrow-principal"
	ToolPwdHash         = "pwd-hash"
)

const (
	FlagToolPrincipal  = "principal"
	FlagToolCreator    = "creator"
	FlagToolVoteID     = "voteID"
	FlagToolPassword   = "password"
	FlagToolOutputJSON = "json"
)

// ShouldHandleTools checks if tools were requested.
func ShouldHandleTools() bool {
	args := os.Args[1:]

	for _, arg := range args {
		if strings.ToLower(arg) == "tool" || strings.ToLower(arg) == "tools" {
			return true
		}
	}

	return false
}

// HandleTools handles available tools.
func HandleTools(nodeConfig *configuration.Configuration) {

	args := os.Args[1:]
	if len(args) == 1 {
		listTools()
		os.Exit(1)
	}

	tools := map[string]func(*configuration.Configuration, []string) error{
		ToolJWTApi:          generateJWTApiToken,
		ToolEscrowPrincipal: escrowPrincipal,
		ToolPwdHash:         hashPassword,
	}

	tool, exists := tools[strings.ToLower(args[1])]
	if !exists {
		fmt.Print("tool not found.\n\n")
		listTools()
		os.Exit(1)
	}

	if err := tool(nodeConfig, args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			// help text was requested
			os.Exit(0)
		}

		fmt.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}

func listTools() {
	fmt.Printf("%-20s generates a JWT token for REST-API access\n", fmt.Sprintf("%s:", ToolJWTApi))
	fmt.Printf("%-20s derives the escrow account of a vote\n", fmt.Sprintf("%s:", ToolEscrowPrincipal))
	fmt.Printf("%-20s generates a scrypt hash of a password and a salt\n", fmt.Sprintf("%s:", ToolPwdHash))
}

// parses the arguments of a tool and prints its usage on failure.
func parseFlagSet(fs *flag.FlagSet, args []string) error {

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Check if all parameters were parsed
	if fs.NArg() != 0 {
		return errors.New("too much arguments")
	}

	return nil
}
