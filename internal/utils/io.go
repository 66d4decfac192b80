package utils

import (
	"fmt"
	"io"
	"os"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

// MaxPlaintextLength is the largest secret the server accepts once encrypted
// and encoded.
const MaxPlaintextLength = 7450

// ReadLimited reads all of r, failing with ErrInputTooLarge once more than
// limit bytes are seen and with ErrEmptyInput if there is nothing to read.
func ReadLimited(r io.Reader, limit int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if len(data) > limit {
		return nil, fmt.Errorf("%w: must be at most %d bytes", kerrors.ErrInputTooLarge, limit)
	}

	if len(data) == 0 {
		return nil, kerrors.ErrEmptyInput
	}

	return data, nil
}

// ReadStdin reads the secret from stdin.
// Returns an error if stdin is a terminal (no piped data), is empty or exceeds MaxPlaintextLength.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("%w (hint: pipe your secret to this command)", kerrors.ErrEmptyInput)
	}

	return ReadLimited(os.Stdin, MaxPlaintextLength)
}
