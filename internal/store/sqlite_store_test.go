package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkukbae/priority-matrix/internal/migrate"
	"github.com/sangkukbae/priority-matrix/internal/model"
)

func TestSQLitePersister_RoundTrip(t *testing.T) {
	p, err := NewSQLitePersister(t.TempDir())
	require.NoError(t, err)
	defer p.Close()

	_, found, err := p.Load()
	require.NoError(t, err)
	assert.False(t, found)

	snap := migrate.Reset()
	snap.Tasks = append(snap.Tasks, model.Task{
		ID: "t1", Title: "water plants", Quadrant: model.QuadrantDelegate, Labels: []string{},
	})
	require.NoError(t, p.Save(snap))

	// second save overwrites the same row
	snap.Tasks[0].Completed = true
	require.NoError(t, p.Save(snap))

	got, found, err := p.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, snap, got)
}

func TestSQLitePersister_BacksTheStore(t *testing.T) {
	dir := t.TempDir()

	p1, err := NewSQLitePersister(dir)
	require.NoError(t, err)
	s1, err := Open(Options{Persister: p1, Logger: quietLogger()})
	require.NoError(t, err)
	added := s1.AddTask(model.Task{Title: "sqlite backed", Quadrant: model.QuadrantDo})
	require.NoError(t, s1.Close())

	p2, err := NewSQLitePersister(dir)
	require.NoError(t, err)
	s2, err := Open(Options{Persister: p2, Logger: quietLogger()})
	require.NoError(t, err)
	defer s2.Close()

	got, ok := s2.TaskByID(added.ID)
	require.True(t, ok)
	assert.Equal(t, "sqlite backed", got.Title)
}
