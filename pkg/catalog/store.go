package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odcplane/odcplane/pkg/stac"
)

// Store persists resolved collection entries and the catalog-level
// listing. Writes must be atomic replacements; entries are never mutated
// in place.
type Store interface {
	// GetEntry returns the persisted entry for name, or ok=false when
	// none exists.
	GetEntry(name string) (*stac.Collection, bool, error)

	// PutEntry replaces the persisted entry for name.
	PutEntry(name string, col *stac.Collection) error

	// DeleteEntry removes the persisted entry for name. Absent entries
	// are a no-op.
	DeleteEntry(name string) error

	// EntryNames lists the names of all persisted entries.
	EntryNames() ([]string, error)

	// GetListing returns the persisted catalog listing, or ok=false.
	GetListing() (*stac.Listing, bool, error)

	// PutListing replaces the persisted catalog listing.
	PutListing(l *stac.Listing) error

	// DeleteListing removes the persisted catalog listing.
	DeleteListing() error
}

// listingFileName is reserved for the catalog-level listing blob and never
// collides with collection entries.
const listingFileName = "collections.json"

// FileStore keeps one JSON document per collection under a cache
// directory, written via temp file + rename.
//
// Directory layout:
//
//	<root>/CACHE/<collection>.json
//	<root>/CACHE/collections.json
type FileStore struct {
	root string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(root string) *FileStore {
	return &FileStore{root: strings.TrimSpace(root)}
}

func (s *FileStore) CacheDir() string {
	return filepath.Join(s.root, "CACHE")
}

func (s *FileStore) entryPath(name string) string {
	return filepath.Join(s.CacheDir(), name+".json")
}

func (s *FileStore) ensureDir() error {
	if strings.TrimSpace(s.root) == "" {
		return fmt.Errorf("catalog cache root dir is empty")
	}
	return os.MkdirAll(s.CacheDir(), 0755)
}

func (s *FileStore) GetEntry(name string) (*stac.Collection, bool, error) {
	var col stac.Collection
	ok, err := s.read(s.entryPath(name), &col)
	if err != nil || !ok {
		return nil, false, err
	}
	return &col, true, nil
}

func (s *FileStore) PutEntry(name string, col *stac.Collection) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("collection name is required")
	}
	if name == strings.TrimSuffix(listingFileName, ".json") {
		return fmt.Errorf("collection name %q is reserved", name)
	}
	return s.write(s.entryPath(name), col)
}

func (s *FileStore) DeleteEntry(name string) error {
	err := os.Remove(s.entryPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) EntryNames() ([]string, error) {
	entries, err := os.ReadDir(s.CacheDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fname := entry.Name()
		if fname == listingFileName || !strings.HasSuffix(fname, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(fname, ".json"))
	}
	return names, nil
}

func (s *FileStore) GetListing() (*stac.Listing, bool, error) {
	var l stac.Listing
	ok, err := s.read(filepath.Join(s.CacheDir(), listingFileName), &l)
	if err != nil || !ok {
		return nil, false, err
	}
	return &l, true, nil
}

func (s *FileStore) PutListing(l *stac.Listing) error {
	return s.write(filepath.Join(s.CacheDir(), listingFileName), l)
}

func (s *FileStore) DeleteListing() error {
	err := os.Remove(filepath.Join(s.CacheDir(), listingFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete catalog listing: %w", err)
	}
	return nil
}

func (s *FileStore) read(path string, v any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func (s *FileStore) write(path string, v any) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(s.CacheDir(), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}
