package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ahasecret/ahasecret/internal/configs"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/ahasecret/ahasecret/internal/sharelink"
	"github.com/ahasecret/ahasecret/internal/ui"
	"github.com/ahasecret/ahasecret/internal/utils"
	"github.com/spf13/cobra"
)

var (
	configInitURL       string
	configInitRetention string
	configInitTimeout   int
	configInitNoConfirm bool
	configInitNoHistory bool
	configInitForce     bool
)

func init() {
	configInitCmd.Flags().StringVarP(&configInitURL, "url", "u", "", "aha-secret server url")
	configInitCmd.Flags().StringVarP(&configInitRetention, "retention", "r", configs.DefaultRetention, "default retention time")
	configInitCmd.Flags().IntVar(&configInitTimeout, "timeout", configs.DefaultTimeoutSeconds, "HTTP timeout in seconds")
	configInitCmd.Flags().BoolVar(&configInitNoConfirm, "no-confirm", false, "reveal without asking for confirmation")
	configInitCmd.Flags().BoolVar(&configInitNoHistory, "no-history", false, "disable the local history")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configInitURL = ""
	configInitRetention = configs.DefaultRetention
	configInitTimeout = configs.DefaultTimeoutSeconds
	configInitNoConfirm = false
	configInitNoHistory = false
	configInitForce = false
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ahasecret configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default server and retention",
	Long: `Writes the user config file. Values given here become the defaults for
share and reveal; flags on those commands still take precedence.

Examples:
  ahasecret config init --url https://secret.example.com
  ahasecret config init --url https://secret.example.com --retention 1d --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configs.Settings.ConfigPath

	if _, err := os.Stat(path); err == nil && !configInitForce {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorLine("Config already exists at "+ui.Highlight.Sprint(path)))
		fmt.Fprintln(cmd.ErrOrStderr(), ui.HintLine("Use "+ui.Flag.Sprint("--force")+" to overwrite it"))
		return reportedError{os.ErrExist}
	}

	if configInitURL == "" {
		return kerrors.ErrServerURLMissing
	}
	if err := sharelink.ValidateBaseURL(configInitURL); err != nil {
		return err
	}
	if _, err := utils.ParseRetention(configInitRetention); err != nil {
		return err
	}

	config := configs.DefaultConfig()
	config.Server.URL = configInitURL
	config.Server.TimeoutSeconds = configInitTimeout
	config.Defaults.Retention = configInitRetention
	config.Defaults.ConfirmReveal = !configInitNoConfirm
	config.History.Enabled = !configInitNoHistory

	if err := configs.SaveConfig(path, config); err != nil {
		return err
	}
	Logger.Infof("Wrote %s", path)

	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine("Config written to "+ui.Highlight.Sprint(path)))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# config: %s\n# data:   %s\n\n", configs.Settings.ConfigPath, configs.Settings.DataDir)
	return toml.NewEncoder(out).Encode(config)
}
