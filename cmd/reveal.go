package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahasecret/ahasecret/internal/configs"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/ahasecret/ahasecret/internal/secrets"
	"github.com/ahasecret/ahasecret/internal/sharelink"
	"github.com/ahasecret/ahasecret/internal/ui"
	"github.com/ahasecret/ahasecret/internal/workflows"
	"github.com/spf13/cobra"
)

const revealPrompt = "Do you really want to reveal the secret? (y/N) "

var (
	revealYes         bool
	revealMaxAttempts int
	revealNoHistory   bool
)

func init() {
	revealCmd.Flags().BoolVarP(&revealYes, "yes", "y", false, "reveal without asking for confirmation")
	revealCmd.Flags().IntVar(&revealMaxAttempts, "max-attempts", 0, "give up after this many wrong passwords (0 = unlimited)")
	revealCmd.Flags().BoolVar(&revealNoHistory, "no-history", false, "do not record this reveal in the local history")
}

// resetRevealCommandState resets the reveal command's global state for testing.
func resetRevealCommandState() {
	revealYes = false
	revealMaxAttempts = 0
	revealNoHistory = false
}

var revealCmd = &cobra.Command{
	Use:   "reveal <share-url>",
	Short: "Fetch and decrypt a secret from a share link",
	Long: `Fetches the secret behind a share link and writes it to stdout.

Revealing deletes the secret from the server, so it can only be done once.
If the secret is password protected you are asked for the password until it
is correct, or until --max-attempts wrong passwords were given.

Quote the link: its fragment contains '&'.

Examples:
  ahasecret reveal "https://secret.example.com/bins/42#<key>&<nonce>"
  ahasecret reveal --yes "$LINK" > id_rsa`,
	Args: cobra.ExactArgs(1),
	RunE: runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting reveal command")

	ref, err := sharelink.Parse(args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatRevealError(err))
		return reportedError{err}
	}
	Logger.Infof("Bin %s at %s", ref.BinID, ref.BinLookupURL)

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if !revealYes && config.Defaults.ConfirmReveal {
		ok, err := confirm(revealPrompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorLine("Aborted, the secret was not revealed"))
			return reportedError{kerrors.ErrAborted}
		}
	}

	store, err := newStore(ref.BinLookupURL, config.Timeout(), userAgent(config))
	if err != nil {
		return err
	}

	historyDir := ""
	if config.History.Enabled && !revealNoHistory {
		historyDir = configs.Settings.DataDir
	}

	spinner, cleanup := startSpinner("Fetching secret...")
	defer cleanup()

	result, err := workflows.Reveal(cmd.Context(), workflows.RevealOptions{
		Link:        args[0],
		Store:       store,
		MaxAttempts: revealMaxAttempts,
		HistoryDir:  historyDir,
		PromptPassword: func(ctx context.Context, state secrets.UnlockState) ([]byte, error) {
			cleanup()
			if state.LastAttemptFailed {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorLine("Wrong password, try again"))
			}
			return readPassword("Password: ")
		},
	})
	if err != nil {
		spinner.FinalMSG = formatRevealError(err)
		return reportedError{err}
	}
	Logger.Infof("Revealed %d bytes after %d password attempts", len(result.Plaintext), result.Attempts)

	spinner.FinalMSG = ui.SuccessLine("Secret revealed and deleted from the server")
	cleanup()

	_, err = cmd.OutOrStdout().Write(result.Plaintext)
	return err
}

// formatRevealError formats a reveal error for display to the user.
func formatRevealError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrParse), errors.Is(err, kerrors.ErrDecode):
		return ui.ErrorLine("This is not a valid share link: "+err.Error()) + "\n" +
			ui.HintLine("Quote the link so the shell keeps everything after "+ui.Highlight.Sprint("&"))

	case errors.Is(err, kerrors.ErrBinNotFound):
		return ui.ErrorLine("The secret does not exist, has expired or was already revealed")

	case errors.Is(err, kerrors.ErrTooManyAttempts):
		return ui.ErrorLine("Too many wrong passwords") + "\n" +
			ui.HintLine("The secret was already deleted from the server; ask the sender to share it again")

	case errors.Is(err, kerrors.ErrAuthentication):
		return ui.ErrorLine("The secret could not be decrypted; the link does not match the stored data")

	default:
		return ui.ErrorLine("Failed to reveal secret: " + err.Error())
	}
}
