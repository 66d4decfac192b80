package workflows

import (
	"context"
	"fmt"
	"io"

	"github.com/ahasecret/ahasecret/internal/binstore"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/ahasecret/ahasecret/internal/history"
	"github.com/ahasecret/ahasecret/internal/secrets"
	"github.com/ahasecret/ahasecret/internal/sharelink"
	"github.com/ahasecret/ahasecret/internal/utils"
)

// ShareOptions configures the share workflow.
type ShareOptions struct {
	// Plaintext is the secret. It must not be empty or exceed utils.MaxPlaintextLength.
	Plaintext []byte

	// Password adds a password layer when not empty.
	Password []byte

	// RetentionMinutes is how long the server keeps the bin.
	RetentionMinutes uint32

	// BaseURL is the server the share link points to.
	BaseURL string

	// Store receives the ciphertext.
	Store binstore.Store

	// Rand is the randomness source. Nil means crypto/rand.
	Rand io.Reader

	// HistoryDir is where the share is recorded. Empty disables history.
	HistoryDir string
}

// ShareResult contains the outcome of a share operation.
type ShareResult struct {
	// Link is the complete share link including key and nonce.
	Link string

	// BinID identifies the bin on the server.
	BinID string

	// BinURL is the bin's lookup url, without key material.
	BinURL string

	HasPassword      bool
	RetentionMinutes uint32
}

// Share encrypts the secret, stores the ciphertext and returns the share link.
//
// Returns ErrEmptyInput or ErrInputTooLarge for unusable plaintext.
// Returns ErrServerURLMissing if no base url is given and ErrParse if it is not absolute.
// Returns ErrInvalidRetention if RetentionMinutes is zero.
func Share(ctx context.Context, opts ShareOptions) (*ShareResult, error) {
	if len(opts.Plaintext) == 0 {
		return nil, kerrors.ErrEmptyInput
	}
	if len(opts.Plaintext) > utils.MaxPlaintextLength {
		return nil, fmt.Errorf("%w: %d bytes, at most %d allowed", kerrors.ErrInputTooLarge, len(opts.Plaintext), utils.MaxPlaintextLength)
	}
	if opts.BaseURL == "" {
		return nil, kerrors.ErrServerURLMissing
	}
	if err := sharelink.ValidateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if opts.RetentionMinutes == 0 {
		return nil, fmt.Errorf("%w: must be at least one minute", kerrors.ErrInvalidRetention)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("share: no bin store configured")
	}

	sealed, err := secrets.Sealer{Rand: opts.Rand}.Seal(opts.Plaintext, opts.Password)
	if err != nil {
		return nil, fmt.Errorf("encrypting secret: %w", err)
	}

	bin, err := opts.Store.Store(ctx, sealed.Payload, sealed.HasPassword, opts.RetentionMinutes)
	if err != nil {
		return nil, fmt.Errorf("storing secret: %w", err)
	}

	link, err := sharelink.Build(opts.BaseURL, bin.ID, sealed.Key, sealed.Nonce)
	if err != nil {
		return nil, fmt.Errorf("building share link: %w", err)
	}

	ref, err := sharelink.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("building share link: %w", err)
	}

	history.Log(opts.HistoryDir, history.Entry{
		Operation:        history.OpShare,
		BinID:            bin.ID,
		BinURL:           ref.BinLookupURL,
		HasPassword:      sealed.HasPassword,
		RetentionMinutes: opts.RetentionMinutes,
		Bytes:            len(opts.Plaintext),
	})

	return &ShareResult{
		Link:             link,
		BinID:            bin.ID,
		BinURL:           ref.BinLookupURL,
		HasPassword:      sealed.HasPassword,
		RetentionMinutes: opts.RetentionMinutes,
	}, nil
}
