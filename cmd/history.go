package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ahasecret/ahasecret/internal/configs"
	"github.com/ahasecret/ahasecret/internal/history"
	"github.com/ahasecret/ahasecret/internal/ui"
	"github.com/ahasecret/ahasecret/internal/utils"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "number", "n", 0, "show only the last n entries")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON array")
}

// resetHistoryCommandState resets the history command's global state for testing.
func resetHistoryCommandState() {
	historyLimit = 0
	historyJSON = false
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show locally recorded shares and reveals",
	Long: `Shows the secrets shared and revealed from this machine.

History never contains keys or full share links; it cannot be used to
reveal a secret.

Examples:
  ahasecret history          # Full history
  ahasecret history -n 10    # Last 10 entries
  ahasecret history --json   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	Logger.Debugf("Reading history from %s", history.Path(configs.Settings.DataDir))

	entries, err := history.ReadEntries(configs.Settings.DataDir)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	entries = history.Last(entries, historyLimit)

	out := cmd.OutOrStdout()
	if historyJSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	outputHistory(out, entries)
	return nil
}

func outputHistory(out io.Writer, entries []history.Entry) {
	for _, e := range entries {
		datetime := e.Timestamp
		if ts := e.Time(); !ts.IsZero() {
			datetime = ts.Local().Format("2006-01-02 15:04:05")
		}

		var details string
		if e.Operation == history.OpShare {
			details = "expires in " + utils.FormatMinutes(e.RetentionMinutes)
		}
		if e.HasPassword {
			details += " " + ui.Muted.Sprint("password")
		}

		fmt.Fprintf(out, "%-19s  %-6s  %5dB  %s  %s\n", datetime, e.Operation, e.Bytes, e.BinURL, details)
	}
}
