// Package history persists the conversation log across sessions. Like the
// calendar file, a corrupt history file degrades to an empty log with a
// warning instead of failing startup.
package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	appLog "github.com/ASLaskin/CalenAI/internal/log"
)

// Entry is one user/assistant exchange.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
}

// History is an append-only conversation log backed by a JSON file.
type History struct {
	path    string
	entries []Entry
}

// Load reads the history file at path. A missing file yields an empty
// history; a malformed one yields an empty history with a logged warning.
func Load(path string) *History {
	h := &History{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			appLog.Error("could not read history file, starting empty", err, "path", path)
		}
		return h
	}

	if err := json.Unmarshal(data, &h.entries); err != nil {
		appLog.Error("could not parse history file, starting empty", err, "path", path)
		h.entries = nil
	}
	return h
}

// Append records one exchange with the current timestamp.
func (h *History) Append(prompt, response string) {
	h.entries = append(h.entries, Entry{
		Timestamp: time.Now().Format(time.RFC3339),
		Prompt:    prompt,
		Response:  response,
	})
}

// Window returns the most recent n entries (fewer if the log is shorter).
func (h *History) Window(n int) []Entry {
	if n <= 0 || len(h.entries) == 0 {
		return nil
	}
	if len(h.entries) <= n {
		return h.entries
	}
	return h.entries[len(h.entries)-n:]
}

// Len reports the number of recorded exchanges.
func (h *History) Len() int {
	return len(h.entries)
}

// Save rewrites the history file atomically.
func (h *History) Save() error {
	entries := h.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(h.path)
	tmp, err := os.CreateTemp(dir, ".calenai-history-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, h.path)
}
