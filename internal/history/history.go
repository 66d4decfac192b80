package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Operations recorded in the history.
const (
	OpShare  = "share"
	OpReveal = "reveal"
)

// FileName is the history file inside the data directory.
const FileName = "history.jsonl"

// Entry represents a single history entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"`

	BinID            string `json:"bin_id"`
	BinURL           string `json:"bin_url"` // Lookup URL, without fragment.
	HasPassword      bool   `json:"has_password"`
	RetentionMinutes uint32 `json:"retention_minutes,omitempty"` // For share.
	Bytes            int    `json:"bytes"`                       // Plaintext length.
}

// Time parses the entry timestamp. Zero if unparseable.
func (e Entry) Time() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Path returns the history file path for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Log appends an entry to the history in dataDir. Failures are ignored.
func Log(dataDir string, entry Entry) {
	if dataDir == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return
	}

	f, err := os.OpenFile(Path(dataDir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the history in dataDir.
// Returns an empty slice if the history doesn't exist.
func ReadEntries(dataDir string) ([]Entry, error) {
	data, err := os.ReadFile(Path(dataDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Last returns the final n entries, or all of them when n <= 0.
func Last(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
