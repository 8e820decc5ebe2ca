package jobregistry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the full job record set as one snapshot.
//
// Snapshot writes must be atomic: a crash mid-write leaves either the old
// or the new set, never a torn file.
type Store interface {
	// Load reads the persisted record set. A store that has never been
	// written returns an empty set, not an error.
	Load() ([]JobRecord, error)

	// Save replaces the persisted record set.
	Save(records []JobRecord) error
}

// FileStore keeps the record set in a single JSON file, replaced
// atomically via temp file + rename on every save.
//
// File layout:
//
//	<root>/jobs.json
type FileStore struct {
	root string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(root string) *FileStore {
	return &FileStore{root: strings.TrimSpace(root)}
}

func (s *FileStore) RootDir() string {
	return s.root
}

func (s *FileStore) SnapshotPath() string {
	return filepath.Join(s.root, "jobs.json")
}

func (s *FileStore) ensureRoot() error {
	if strings.TrimSpace(s.root) == "" {
		return fmt.Errorf("job registry root dir is empty")
	}
	return os.MkdirAll(s.root, 0755)
}

func (s *FileStore) Load() ([]JobRecord, error) {
	b, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jobs snapshot: %w", err)
	}

	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return nil, nil
	}

	var records []JobRecord
	if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
		return nil, fmt.Errorf("parse jobs.json: %w", err)
	}
	return records, nil
}

func (s *FileStore) Save(records []JobRecord) error {
	if err := s.ensureRoot(); err != nil {
		return err
	}
	if records == nil {
		records = []JobRecord{}
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal job records: %w", err)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(s.root, "jobs.json.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp jobs file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp jobs file: %w", err)
	}

	if err := os.Rename(tmpName, s.SnapshotPath()); err != nil {
		return fmt.Errorf("rename jobs file: %w", err)
	}
	return nil
}
