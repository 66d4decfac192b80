package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ahasecret/ahasecret/internal/binstore"
	"github.com/ahasecret/ahasecret/internal/configs"
	logger "github.com/ahasecret/ahasecret/internal/logging"
	"github.com/ahasecret/ahasecret/internal/ui"
	"github.com/ahasecret/ahasecret/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time with -ldflags "-X github.com/ahasecret/ahasecret/cmd.Version=...".
var Version = "dev"

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "ahasecret",
		Short: "Share secrets once through an aha-secret server",
		Long: `ahasecret encrypts a secret locally, stores only the ciphertext on an
aha-secret server and prints a link that reveals it exactly once.

The decryption key travels in the link's fragment and never reaches the server.

Usage:
  echo "hunter2" | ahasecret share --url https://secret.example.com
  ahasecret reveal "https://secret.example.com/bins/42#<key>&<nonce>"`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(ui.Banner("ahasecret"))
			fmt.Println(ui.HintLine("Run " + ui.Code.Sprint("ahasecret --help") + " to see available commands"))
		},
	}
)

// Hooks replaced by tests.
var (
	readSecret   = utils.ReadStdin
	readPassword = utils.ReadPassphrase
	confirm      = func(prompt string) (bool, error) {
		return utils.Confirm(os.Stdin, os.Stderr, prompt)
	}
	newStore = func(baseURL string, timeout time.Duration, userAgent string) (binstore.Store, error) {
		return binstore.NewHTTPStore(baseURL, userAgent, timeout)
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(shareCmd)
	RootCmd.AddCommand(revealCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(configCmd)
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// Execute runs the root command. Errors not yet shown are printed to stderr.
func Execute(ctx context.Context) error {
	err := RootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, ui.ErrorLine(err.Error()))
	}
	return err
}

// loadConfig reads the user config.
func loadConfig() (*configs.Config, error) {
	Logger.Debugf("Loading config from %s", configs.Settings.ConfigPath)
	return configs.Load()
}

func userAgent(config *configs.Config) string {
	if config.Server.UserAgent != "" {
		return config.Server.UserAgent
	}
	return "ahasecret/" + Version
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	Logger = logger.Logger{}

	resetShareCommandState()
	resetRevealCommandState()
	resetHistoryCommandState()
	resetConfigCommandState()

	resetFlagState(RootCmd)
}

// resetFlagState clears the Changed marks left by a previous Execute so that
// flag precedence checks behave between tests.
func resetFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}
