// Package secrets implements the ahasecret encryption protocol.
//
// Everything in this package is a pure computation over in-memory buffers.
// It never touches the network, the terminal or the process lifecycle, and
// every source of randomness can be injected as an io.Reader.
//
// # Outer Layer
//
// Every secret is sealed with AES-256-GCM under a key and a 12-byte nonce
// that are generated together for that one call and never reused. The
// ciphertext (with the 16-byte tag appended) is stored on the server as
// standard base64. The key and nonce travel only in the share link fragment.
//
// # Password Layer
//
// When a password is given, the plaintext is first sealed under a key
// derived with PBKDF2-HMAC-SHA256 from the password and a fresh 16-byte salt,
// with its own fresh nonce. The result is serialized as:
//
//	{"salt": "<b64>", "iv": "<b64>", "cipher": "<b64>"}
//
// and those JSON bytes are sealed by the outer layer like any other
// plaintext. The server only learns that a password layer exists through the
// separate has_password flag stored next to the payload.
//
// The PBKDF2 iteration count is a fixed protocol constant and is not stored
// in the envelope.
//
// # Decrypting
//
// Open decrypts the outer layer and returns an Unlocker. For plain secrets it
// already holds the plaintext. For password-protected secrets the caller
// loops: check State, obtain a password, call TryPassword. A wrong password
// returns ErrAuthentication and leaves the Unlocker ready for another try.
package secrets
