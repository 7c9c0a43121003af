package repl

import (
	"bufio"
	"os"
	"path/filepath"
)

// DefaultHistorySize is the number of lines kept.
const DefaultHistorySize = 1000

// History keeps recent REPL lines.
type History struct {
	entries []string
	maxSize int
	file    string
}

// NewHistory creates an in-memory history.
func NewHistory() *History {
	return &History{
		entries: make([]string, 0),
		maxSize: DefaultHistorySize,
	}
}

// NewFileHistory creates a history persisted to path by Load and Save.
func NewFileHistory(path string) *History {
	h := NewHistory()
	h.file = path
	return h
}

// DefaultHistoryFile returns ~/.kvcli_history.
func DefaultHistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".kvcli_history")
}

// Add appends a line, dropping the oldest once full.
func (h *History) Add(line string) {
	h.entries = append(h.entries, line)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Get returns the entry at index (0 = most recent).
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Load reads history from the file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return scanner.Err()
}

// Save writes history to the file with owner-only permissions.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0o700); err != nil {
		return err
	}

	file, err := os.OpenFile(h.file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
