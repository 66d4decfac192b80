package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahasecret/ahasecret/internal/binstore"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/ahasecret/ahasecret/internal/history"
	"github.com/ahasecret/ahasecret/internal/secrets"
	"github.com/ahasecret/ahasecret/internal/sharelink"
)

// PasswordPrompt asks for the password of a protected secret. state tells
// whether the previous attempt failed.
type PasswordPrompt func(ctx context.Context, state secrets.UnlockState) ([]byte, error)

// RevealOptions configures the reveal workflow.
type RevealOptions struct {
	// Link is the share link, including the key and nonce fragment.
	Link string

	// Store fetches the bin.
	Store binstore.Store

	// PromptPassword is called until the password layer opens. If nil, a
	// protected secret fails with ErrPasswordRequired.
	PromptPassword PasswordPrompt

	// MaxAttempts bounds the number of password attempts. 0 means unlimited.
	MaxAttempts int

	// HistoryDir is where the reveal is recorded. Empty disables history.
	HistoryDir string
}

// RevealResult contains the outcome of a reveal operation.
type RevealResult struct {
	Plaintext []byte

	BinID       string
	BinURL      string
	HasPassword bool

	// Attempts is the number of passwords tried.
	Attempts int
}

// Reveal fetches the bin behind the share link, which burns it on the
// server, and decrypts it.
//
// Returns ErrParse or ErrDecode for a malformed link.
// Returns ErrBinNotFound if the bin was already revealed or has expired.
// Returns ErrAuthentication if the payload does not match the link's key.
// Returns ErrTooManyAttempts once MaxAttempts wrong passwords were given.
func Reveal(ctx context.Context, opts RevealOptions) (*RevealResult, error) {
	ref, err := sharelink.Parse(opts.Link)
	if err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("reveal: no bin store configured")
	}

	bin, err := opts.Store.Fetch(ctx, ref.BinLookupURL)
	if err != nil {
		return nil, fmt.Errorf("fetching secret: %w", err)
	}

	unlocker, err := secrets.Open(ref.Key, ref.Nonce, bin.Payload, bin.HasPassword)
	if err != nil {
		return nil, err
	}

	plaintext, err := unlock(ctx, unlocker, opts)
	if err != nil {
		return nil, err
	}

	history.Log(opts.HistoryDir, history.Entry{
		Operation:   history.OpReveal,
		BinID:       ref.BinID,
		BinURL:      ref.BinLookupURL,
		HasPassword: bin.HasPassword,
		Bytes:       len(plaintext),
	})

	return &RevealResult{
		Plaintext:   plaintext,
		BinID:       ref.BinID,
		BinURL:      ref.BinLookupURL,
		HasPassword: bin.HasPassword,
		Attempts:    unlocker.State().Attempts,
	}, nil
}

func unlock(ctx context.Context, unlocker *secrets.Unlocker, opts RevealOptions) ([]byte, error) {
	for {
		if plaintext, ok := unlocker.Plaintext(); ok {
			return plaintext, nil
		}

		if opts.PromptPassword == nil {
			return nil, kerrors.ErrPasswordRequired
		}

		state := unlocker.State()
		if opts.MaxAttempts > 0 && state.Attempts >= opts.MaxAttempts {
			return nil, fmt.Errorf("%w: %d attempts", kerrors.ErrTooManyAttempts, state.Attempts)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		password, err := opts.PromptPassword(ctx, state)
		if err != nil {
			return nil, err
		}

		if _, err := unlocker.TryPassword(password); err != nil && !errors.Is(err, kerrors.ErrAuthentication) {
			return nil, err
		}
	}
}
