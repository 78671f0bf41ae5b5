package toolset

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/votereward/pkg/basicauth"
)

const (
	passwordEnvKey = "VOTEREWARD_TOOL_PASSWORD"
)

func readPasswordFromStdin() ([]byte, error) {

	// get terminal state to be able to restore it in case of an interrupt
	originalTerminalState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		return nil, errors.New("failed to get terminal state")
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	go func() {
		<-signalChan
		// reset the terminal to the original state if we receive an interrupt
		_ = term.Restore(int(syscall.Stdin), originalTerminalState)
		fmt.Println("\naborted... Bye!")
		os.Exit(1)
	}()

	fmt.Print("Enter a password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, errors.Wrap(err, "read password failed")
	}

	fmt.Print("\nRe-enter your password: ")
	passwordReenter, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, errors.Wrap(err, "read password failed")
	}
	fmt.Println()

	if !bytes.Equal(password, passwordReenter) {
		return nil, errors.New("re-entered password doesn't match")
	}
	return password, nil
}

func hashPassword(_ *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	passwordFlag := fs.String(FlagToolPassword, "", fmt.Sprintf("password to hash (optional, prompted otherwise). Can also be passed as %s environment variable.", passwordEnvKey))
	outputJSON := fs.Bool(FlagToolOutputJSON, false, "format output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolPwdHash)
		fs.PrintDefaults()
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	var password []byte
	switch passwordEnv, exists := os.LookupEnv(passwordEnvKey); {
	case exists:
		password = []byte(passwordEnv)
	case *passwordFlag != "":
		password = []byte(*passwordFlag)
	default:
		p, err := readPasswordFromStdin()
		if err != nil {
			return err
		}
		password = p
	}
	if len(password) == 0 {
		return errors.New("password must not be empty")
	}

	passwordSalt, err := basicauth.GenerateSalt()
	if err != nil {
		return errors.Wrap(err, "generating random salt failed")
	}

	passwordKey, err := basicauth.DerivePasswordKey(password, passwordSalt)
	if err != nil {
		return errors.Wrap(err, "deriving password key failed")
	}

	if *outputJSON {
		result := struct {
			PasswordHash string `json:"passwordHash"`
			PasswordSalt string `json:"passwordSalt"`
		}{
			PasswordHash: hex.EncodeToString(passwordKey),
			PasswordSalt: hex.EncodeToString(passwordSalt),
		}

		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Your hash: %x\nYour salt: %x\n", passwordKey, passwordSalt)
	return nil
}
