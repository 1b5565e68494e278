package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sangkukbae/priority-matrix/internal/model"
)

// snapshotKey mirrors the storage key the web client used for its
// persisted state.
const snapshotKey = "priority-metrix-storage"

// SQLitePersister stores the snapshot bytes in a single-row key/value
// table. Same contents as the file backend, different durability story.
type SQLitePersister struct {
	db *sql.DB
}

func NewSQLitePersister(dataDir string) (*SQLitePersister, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, "priority-matrix.db"))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLitePersister{db: db}, nil
}

func (p *SQLitePersister) Load() (model.Snapshot, bool, error) {
	var b []byte
	err := p.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, snapshotKey).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return model.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (p *SQLitePersister) Save(snap model.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		snapshotKey, b, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (p *SQLitePersister) Close() error {
	return p.db.Close()
}
