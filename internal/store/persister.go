package store

import "github.com/sangkukbae/priority-matrix/internal/model"

// Persister is the durable home of the state snapshot. Load is called once
// when the store opens; Save after every mutation.
type Persister interface {
	// Load returns the stored snapshot and whether one existed. A decode
	// failure returns an error; the store recovers by resetting.
	Load() (model.Snapshot, bool, error)
	Save(model.Snapshot) error
	Close() error
}

// MemoryPersister keeps the snapshot in process memory. Used by tests and
// as the fallback when no backend is configured.
type MemoryPersister struct {
	snap  model.Snapshot
	found bool
	Saves int
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Seed pre-loads a snapshot, as if it had been persisted by an earlier run.
func (m *MemoryPersister) Seed(s model.Snapshot) {
	m.snap = s
	m.found = true
}

func (m *MemoryPersister) Load() (model.Snapshot, bool, error) {
	return m.snap, m.found, nil
}

func (m *MemoryPersister) Save(s model.Snapshot) error {
	m.snap = s
	m.found = true
	m.Saves++
	return nil
}

func (m *MemoryPersister) Close() error { return nil }
