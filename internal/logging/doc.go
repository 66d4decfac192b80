// Package logger provides leveled output for ahasecret commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored prefixes from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// All output goes to stderr; stdout is reserved for share links and
// revealed secrets.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Shown with --verbose or --debug
//	Logger.WarnfAlways()    // Always shown
//	Logger.Errorf()         // Always shown
//	Logger.ErrorfAndReturn() // Returned as an error, shown with --debug
//
// # What Not To Log
//
// Keys, nonces, passwords, plaintext and full share links must never reach
// the logger. Log lengths, bin ids and lookup urls instead.
package logger
