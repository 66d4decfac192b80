// Package errors provides typed error values for the ahasecret application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This matters
// most for the password layer, where a wrong password must be told apart from
// a corrupted share link.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Protocol errors: malformed or tampered data (ErrDecode, ErrParse,
//     ErrAuthentication, ErrCryptoMisuse)
//   - Input errors: problems with what the user provided (ErrEmptyInput,
//     ErrInputTooLarge, ErrInvalidRetention)
//   - Transport errors: the bin store misbehaved (ErrTokenNotFound,
//     ErrBinNotFound, ErrUnexpectedResponse)
//   - Prompt errors: interactive input failed (ErrPasswordMismatch,
//     ErrTooManyAttempts, ErrAborted)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return nil, fmt.Errorf("decoding nonce: %w", errors.ErrDecode)
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Reveal(ctx, opts)
//	if errors.Is(err, kerrors.ErrParse) {
//	    // Show user-friendly message about the link
//	}
//
// Only ErrAuthentication returned from the password layer is recoverable:
// the caller may ask for another password and retry. Every other error aborts
// the operation.
package errors
