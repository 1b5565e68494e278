package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sangkukbae/priority-matrix/internal/model"
)

const snapshotFile = "snapshot.json"

// FilePersister keeps the snapshot as pretty-printed JSON in the data
// directory.
type FilePersister struct {
	path string
}

func NewFilePersister(dataDir string) (*FilePersister, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FilePersister{path: filepath.Join(dataDir, snapshotFile)}, nil
}

func (p *FilePersister) Load() (model.Snapshot, bool, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Snapshot{}, false, nil
		}
		return model.Snapshot{}, false, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return model.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (p *FilePersister) Save(snap model.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, b, 0o644)
}

func (p *FilePersister) Close() error { return nil }
