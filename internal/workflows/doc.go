// Package workflows provides high-level orchestration for ahasecret commands.
//
// Workflows coordinate the secrets, sharelink, binstore and history packages
// to implement complete user-facing features, independent of CLI concerns
// like flag parsing, spinners, prompts and output formatting.
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// # Available Workflows
//
//   - Share: encrypts a secret, stores the ciphertext and builds the share link
//   - Reveal: fetches a bin (burning it), decrypts it and unlocks the password layer
//
// # Passwords
//
// Reveal never reads from the terminal itself. When the secret is password
// protected it calls RevealOptions.PromptPassword with the current
// secrets.UnlockState, so the caller can tell a first prompt from a retry.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Use
// errors.Is() to check for specific conditions:
//
//	result, err := workflows.Reveal(ctx, opts)
//	if errors.Is(err, kerrors.ErrBinNotFound) {
//	    // Already revealed or expired
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Reveal checks it between password attempts.
package workflows
