package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// seenRecord is the on-disk format, one file per monitor slug
type seenRecord struct {
	Seen []string `json:"seen"`
}

// FileStore keeps one JSON file per monitor under a state directory
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(slug string) string {
	return filepath.Join(s.dir, slug+".json")
}

// LoadSeen reads the seen URLs for a slug; a missing file yields an empty set
func (s *FileStore) LoadSeen(slug string) ([]string, error) {
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.NewState(slug, "failed to read state file", err)
	}

	var rec seenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errs.NewState(slug, "corrupt state file", err)
	}
	return rec.Seen, nil
}

// SaveSeen rewrites the seen URLs for a slug atomically enough for a
// single-writer process: full marshal, single WriteFile.
func (s *FileStore) SaveSeen(slug string, urls []string) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return errs.NewState(slug, "failed to create state directory", err)
	}

	data, err := json.MarshalIndent(seenRecord{Seen: urls}, "", "  ")
	if err != nil {
		return errs.NewState(slug, "failed to encode state", err)
	}
	if err := os.WriteFile(s.path(slug), data, 0o644); err != nil {
		return errs.NewState(slug, "failed to write state file", err)
	}
	return nil
}

// Close is a no-op for the file backend
func (s *FileStore) Close() error {
	return nil
}
