package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ahasecret/ahasecret/internal/configs"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/ahasecret/ahasecret/internal/ui"
	"github.com/ahasecret/ahasecret/internal/utils"
	"github.com/ahasecret/ahasecret/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	shareURL       string
	shareRetention string
	sharePassword  bool
	shareNoHistory bool
)

func init() {
	shareCmd.Flags().StringVarP(&shareURL, "url", "u", "", "aha-secret server url (overrides config)")
	shareCmd.Flags().StringVarP(&shareRetention, "retention", "r", configs.DefaultRetention, "how long the server keeps the secret, e.g. 30m, 12h, 7d")
	shareCmd.Flags().BoolVarP(&sharePassword, "password", "p", false, "protect the secret with an additional password")
	shareCmd.Flags().BoolVar(&shareNoHistory, "no-history", false, "do not record this share in the local history")
}

// resetShareCommandState resets the share command's global state for testing.
func resetShareCommandState() {
	shareURL = ""
	shareRetention = configs.DefaultRetention
	sharePassword = false
	shareNoHistory = false
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Encrypt a secret from stdin and print a one-time link",
	Long: `Reads a secret from stdin, encrypts it locally and stores the ciphertext on
the server. The printed link reveals the secret exactly once.

The secret may be at most 7450 bytes.

Examples:
  ahasecret share --url https://secret.example.com < id_rsa
  echo "hunter2" | ahasecret share --retention 12h
  pass show db | ahasecret share --password`,
	Args: cobra.NoArgs,
	RunE: runShare,
}

func runShare(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting share command")

	config, err := loadConfig()
	if err != nil {
		return err
	}

	baseURL := shareURL
	if baseURL == "" {
		baseURL = config.Server.URL
	}
	if baseURL == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorLine("No server url configured"))
		fmt.Fprintln(cmd.ErrOrStderr(), ui.HintLine("Pass "+ui.Flag.Sprint("--url")+" or run "+ui.Code.Sprint("ahasecret config init --url <server>")))
		return reportedError{kerrors.ErrServerURLMissing}
	}

	retention := shareRetention
	if !cmd.Flags().Changed("retention") {
		retention = config.Defaults.Retention
	}
	minutes, err := utils.ParseRetention(retention)
	if err != nil {
		return err
	}
	Logger.Debugf("Retention %q is %d minutes", retention, minutes)

	plaintext, err := readSecret()
	if err != nil {
		return err
	}
	Logger.Infof("Input length: %d bytes", len(plaintext))

	var password []byte
	if sharePassword {
		password, err = promptNewPassword()
		if err != nil {
			return err
		}
	}

	store, err := newStore(baseURL, config.Timeout(), userAgent(config))
	if err != nil {
		return err
	}

	historyDir := ""
	if config.History.Enabled && !shareNoHistory {
		historyDir = configs.Settings.DataDir
	}

	spinner, cleanup := startSpinner("Storing secret...")
	defer cleanup()

	result, err := workflows.Share(cmd.Context(), workflows.ShareOptions{
		Plaintext:        plaintext,
		Password:         password,
		RetentionMinutes: minutes,
		BaseURL:          baseURL,
		Store:            store,
		HistoryDir:       historyDir,
	})
	if err != nil {
		spinner.FinalMSG = formatShareError(err)
		return reportedError{err}
	}
	Logger.Infof("Stored bin %s at %s", result.BinID, result.BinURL)

	status := "Secret stored, expires in " + ui.Highlight.Sprint(utils.FormatMinutes(result.RetentionMinutes)) + " or after the first reveal"
	if result.HasPassword {
		status += " " + ui.Muted.Sprint("password protected")
	}
	spinner.FinalMSG = ui.SuccessLine(status)
	cleanup()

	fmt.Fprintln(cmd.OutOrStdout(), ui.Link.Sprint(result.Link))
	return nil
}

// promptNewPassword asks for a password twice and requires both to match.
func promptNewPassword() ([]byte, error) {
	password, err := readPassword("Password: ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password must not be empty", kerrors.ErrEmptyInput)
	}

	confirmation, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(password, confirmation) {
		return nil, kerrors.ErrPasswordMismatch
	}
	return password, nil
}

// formatShareError formats a share error for display to the user.
func formatShareError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrTokenNotFound):
		return ui.ErrorLine("The server did not hand out an authenticity token") + "\n" +
			ui.HintLine("Check that the url points to an aha-secret instance")

	case errors.Is(err, kerrors.ErrUnexpectedResponse):
		return ui.ErrorLine("The server rejected the secret: " + err.Error())

	default:
		return ui.ErrorLine("Failed to share secret: " + err.Error())
	}
}
