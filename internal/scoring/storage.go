package scoring

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReportStorage defines where the round report of a session goes.
// This allows for mocking the storage layer during tests.
type ReportStorage interface {
	// SaveAll writes the given entries, overwriting any earlier report.
	SaveAll(entries []RoundEntry) error
}

// JSONFileStorage is an implementation of ReportStorage that writes one JSON
// object per line. The file is never read back.
type JSONFileStorage struct {
	path string
}

func NewJSONFileStorage(path string) (*JSONFileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("report path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve report path %s: %w", path, err)
	}
	return &JSONFileStorage{path: abs}, nil
}

func (jfs *JSONFileStorage) Path() string {
	return jfs.path
}

// SaveAll writes the report to a temporary file next to the target and
// renames it into place, so a reader never sees a half-written report.
func (jfs *JSONFileStorage) SaveAll(entries []RoundEntry) error {
	dir := filepath.Dir(jfs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(jfs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary report: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := bufio.NewWriter(tmp)
	encoder := json.NewEncoder(writer)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			tmp.Close()
			return fmt.Errorf("error encoding round %d: %w", entry.Round, err)
		}
	}

	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing report: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("error setting report permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing report: %w", err)
	}

	if err := os.Rename(tmp.Name(), jfs.path); err != nil {
		return fmt.Errorf("error moving report into place: %w", err)
	}
	return nil
}
