package secrets

import (
	"errors"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

// UnlockState tells the caller what an Unlocker needs next.
type UnlockState struct {
	// NeedPassword is true until a password has unlocked the secret.
	NeedPassword bool

	// LastAttemptFailed is true when the previous password was wrong.
	LastAttemptFailed bool

	// Attempts counts the passwords tried so far.
	Attempts int
}

// Unlocker is the resumable decrypt state of a fetched secret. Prompting is
// left to the caller: ask State what is needed, call TryPassword, repeat.
// There is no attempt limit here.
type Unlocker struct {
	envelope   *PasswordEnvelope
	plaintext  []byte
	unlocked   bool
	attempts   int
	lastFailed bool
}

// State reports whether a password is still needed.
func (u *Unlocker) State() UnlockState {
	return UnlockState{
		NeedPassword:      !u.unlocked,
		LastAttemptFailed: u.lastFailed,
		Attempts:          u.attempts,
	}
}

// Plaintext returns the secret once it is unlocked.
func (u *Unlocker) Plaintext() ([]byte, bool) {
	if !u.unlocked {
		return nil, false
	}
	return u.plaintext, true
}

// TryPassword attempts to open the password layer. On a wrong password it
// returns ErrAuthentication and the Unlocker can be tried again.
func (u *Unlocker) TryPassword(password []byte) ([]byte, error) {
	if u.unlocked {
		return u.plaintext, nil
	}

	u.attempts++
	plaintext, err := u.envelope.Unwrap(password)
	if err != nil {
		u.lastFailed = errors.Is(err, kerrors.ErrAuthentication)
		return nil, err
	}

	u.plaintext = plaintext
	u.unlocked = true
	u.lastFailed = false
	return plaintext, nil
}
