package fx

import (
	"encoding/json"
	"os"
	"path/filepath"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// FileRepo persists the snapshot as a JSON file
type FileRepo struct {
	path string
}

// NewFileRepo creates a file-backed snapshot repository
func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

// Load reads the persisted snapshot. A missing file is not an error, it
// simply means no snapshot exists yet.
func (r *FileRepo) Load() (*Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.NewState("fx", "failed to read snapshot file", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errs.NewState("fx", "corrupt snapshot file", err)
	}
	return &snap, nil
}

// Save writes the snapshot, creating the state directory if needed
func (r *FileRepo) Save(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return errs.NewState("fx", "failed to create state directory", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errs.NewState("fx", "failed to encode snapshot", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return errs.NewState("fx", "failed to write snapshot file", err)
	}
	return nil
}
