package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkukbae/priority-matrix/internal/migrate"
	"github.com/sangkukbae/priority-matrix/internal/model"
)

func TestFilePersister_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	require.NoError(t, err)

	_, found, err := p.Load()
	require.NoError(t, err)
	assert.False(t, found)

	snap := migrate.Reset()
	snap.Tasks = append(snap.Tasks, model.Task{
		ID: "t1", Title: "laundry", Quadrant: model.QuadrantDo, Labels: []string{},
	})
	require.NoError(t, p.Save(snap))

	got, found, err := p.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, snap, got)
}

func TestFilePersister_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{not json"), 0o644))

	_, _, err = p.Load()
	assert.Error(t, err)
}

func TestOpen_MalformedSnapshotResets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("][garbage"), 0o644))

	p, err := NewFilePersister(dir)
	require.NoError(t, err)
	s, err := Open(Options{Persister: p, Logger: quietLogger()})
	require.NoError(t, err)

	assert.Empty(t, s.Tasks())
	assert.Equal(t, model.DefaultLabels(), s.Labels())

	// the reset state was persisted over the garbage
	got, found, err := p.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, migrate.CurrentVersion, got.Version)
}

func TestOpen_FileBackedStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	p1, err := NewFilePersister(dir)
	require.NoError(t, err)
	s1, err := Open(Options{Persister: p1, Logger: quietLogger()})
	require.NoError(t, err)
	added := s1.AddTask(model.Task{Title: "persist me", Quadrant: model.QuadrantPlan})

	p2, err := NewFilePersister(dir)
	require.NoError(t, err)
	s2, err := Open(Options{Persister: p2, Logger: quietLogger()})
	require.NoError(t, err)

	got, ok := s2.TaskByID(added.ID)
	require.True(t, ok)
	assert.Equal(t, "persist me", got.Title)
	assert.Equal(t, model.QuadrantPlan, got.Quadrant)
}
