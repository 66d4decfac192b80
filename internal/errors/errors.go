package errors

import "errors"

// Protocol errors indicate malformed, tampered or misused cryptographic data.
var (
	// ErrDecode indicates malformed base64 or JSON data in transit.
	ErrDecode = errors.New("malformed encoded data")

	// ErrParse indicates a malformed share URL.
	ErrParse = errors.New("malformed share url")

	// ErrAuthentication indicates an AEAD tag mismatch: wrong key, wrong password or tampered ciphertext.
	ErrAuthentication = errors.New("message authentication failed")

	// ErrCryptoMisuse indicates a key or nonce of the wrong length.
	ErrCryptoMisuse = errors.New("invalid key or nonce length")
)

// Input errors indicate problems with the data the user provided.
var (
	// ErrEmptyInput indicates there was nothing to encrypt.
	ErrEmptyInput = errors.New("input is empty")

	// ErrInputTooLarge indicates the plaintext exceeds what the server accepts.
	ErrInputTooLarge = errors.New("input is too large")

	// ErrInvalidRetention indicates the retention time could not be parsed.
	ErrInvalidRetention = errors.New("invalid retention time")

	// ErrServerURLMissing indicates no server url was given by flag or config.
	ErrServerURLMissing = errors.New("server url is not configured")
)

// Transport errors indicate the bin store did not behave as expected.
var (
	// ErrTokenNotFound indicates the page did not carry an authenticity token.
	ErrTokenNotFound = errors.New("authenticity token not found")

	// ErrBinNotFound indicates the bin does not exist, expired or was already revealed.
	ErrBinNotFound = errors.New("secret not found or already revealed")

	// ErrUnexpectedResponse indicates the server answered with an unexpected status or body.
	ErrUnexpectedResponse = errors.New("unexpected response from server")
)

// Prompt errors indicate interactive input failed or was refused.
var (
	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordRequired indicates a password is needed but no way to ask for one was provided.
	ErrPasswordRequired = errors.New("secret is password protected")

	// ErrTooManyAttempts indicates the caller's password attempt limit was reached.
	ErrTooManyAttempts = errors.New("too many wrong password attempts")

	// ErrAborted indicates the user declined to continue.
	ErrAborted = errors.New("aborted by user")

	// ErrNotTerminal indicates an interactive prompt was needed but stdin is not a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")
)
