// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with colors when the terminal supports them. When NO_COLOR
// is set or output is not a terminal, text decorations (backticks, quotes)
// are used instead, so piped output never carries escape codes.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("ahasecret share")        // Commands
//	ui.Link.Sprint(shareURL)                 // Share links, never decorated
//	ui.Success.Sprint("✓")                   // Success indicators
//	ui.Error.Sprint("✗")                     // Error indicators
//	ui.Info.Sprint("→")                      // Hints
//	ui.Highlight.Sprint("7d")                // User values
//	ui.Muted.Sprint("expires in 10080 min")  // De-emphasized text
//
// Revealed secrets are written verbatim and must never pass through a
// formatter.
package ui
