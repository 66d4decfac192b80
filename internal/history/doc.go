// Package history keeps a local record of shared and revealed secrets.
//
// Entries are appended as JSON Lines to <data dir>/history.jsonl. Each entry
// records the operation, the bin id and lookup URL, whether a password was
// used and the plaintext size. Keys, nonces and share link fragments are
// never recorded: history alone cannot be used to decrypt anything.
//
// Writing history is best-effort. A share or reveal never fails because the
// history file could not be written.
package history
