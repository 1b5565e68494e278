// Package store owns the authoritative collection of tasks and labels.
// All mutations run synchronously under one lock and persist the full
// snapshot as a side effect; derived views are recomputed on demand.
//
// Not-found semantics follow the UI contract: delete-style operations
// report a boolean, everything else is a logged no-op. Nothing here throws
// for a missing id.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sangkukbae/priority-matrix/internal/metrics"
	"github.com/sangkukbae/priority-matrix/internal/migrate"
	"github.com/sangkukbae/priority-matrix/internal/model"
)

type Store struct {
	mu     sync.Mutex
	tasks  []model.Task
	labels []model.Label

	persister Persister
	log       *logrus.Logger
	rec       metrics.Recorder

	saveErr error // last snapshot write failure, nil when healthy
}

type Options struct {
	Persister Persister
	Logger    *logrus.Logger
	Recorder  metrics.Recorder
}

// Open loads the persisted snapshot, migrates it to the current schema
// version, and returns a ready store. A missing snapshot starts fresh with
// the default labels; an unreadable one is reset the same way rather than
// failing startup.
func Open(opts Options) (*Store, error) {
	if opts.Persister == nil {
		opts.Persister = NewMemoryPersister()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.Noop{}
	}

	s := &Store{
		persister: opts.Persister,
		log:       opts.Logger,
		rec:       opts.Recorder,
	}

	snap, found, err := opts.Persister.Load()
	switch {
	case err != nil:
		s.log.WithError(err).Warn("snapshot unreadable, resetting to empty state")
		snap = migrate.Reset()
		if err := opts.Persister.Save(snap); err != nil {
			return nil, err
		}
	case !found:
		snap = migrate.Reset()
		if err := opts.Persister.Save(snap); err != nil {
			return nil, err
		}
	default:
		loadedVersion := snap.Version
		snap = migrate.Run(snap)
		if snap.Version != loadedVersion {
			s.log.WithFields(logrus.Fields{
				"from": loadedVersion,
				"to":   snap.Version,
			}).Info("migrated snapshot")
			if err := opts.Persister.Save(snap); err != nil {
				return nil, err
			}
		}
	}

	s.tasks = snap.Tasks
	s.labels = snap.Labels
	return s, nil
}

func (s *Store) Close() error {
	return s.persister.Close()
}

// Healthy reports the last snapshot write failure, if any.
func (s *Store) Healthy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// persistLocked writes the full snapshot. Write failures do not fail the
// mutation; they are logged, counted, and remembered for Healthy.
func (s *Store) persistLocked(op string) {
	s.rec.StoreMutation(op)

	snap := model.Snapshot{
		Version: migrate.CurrentVersion,
		Tasks:   append([]model.Task(nil), s.tasks...),
		Labels:  append([]model.Label(nil), s.labels...),
	}
	if err := s.persister.Save(snap); err != nil {
		s.saveErr = err
		s.rec.SnapshotSaveFailure()
		s.log.WithError(err).WithField("op", op).Warn("snapshot save failed")
		return
	}
	s.saveErr = nil
}

func (s *Store) taskIndexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) labelIndexLocked(id string) int {
	for i := range s.labels {
		if s.labels[i].ID == id {
			return i
		}
	}
	return -1
}

// countActiveLocked counts non-archived tasks in a quadrant, which is also
// the next free order slot there.
func (s *Store) countActiveLocked(q model.Quadrant) int {
	n := 0
	for i := range s.tasks {
		if s.tasks[i].Quadrant == q && !s.tasks[i].Archived {
			n++
		}
	}
	return n
}

// AddTask creates a task from the caller-supplied fields. Managed fields
// (id, order, completed, archived, timestamps) are overwritten; the input
// is assumed pre-validated by the form layer.
func (s *Store) AddTask(t model.Task) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	t.ID = newID("task")
	t.Order = s.countActiveLocked(t.Quadrant)
	t.Completed = false
	t.Archived = false
	t.ArchivedAt = nil
	t.ColorTag = ""
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Priority == "" {
		t.Priority = model.PriorityNone
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	for i := range t.Checklist {
		if t.Checklist[i].ID == "" {
			t.Checklist[i].ID = newID("chk")
		}
	}

	s.tasks = append(s.tasks, t)
	s.persistLocked("add_task")
	return t
}

// UpdateTask merges a patch into the task. Missing ids are a logged no-op.
func (s *Store) UpdateTask(id string, p TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		s.log.WithField("task_id", id).Warn("update: task not found")
		return
	}
	applyTaskPatch(&s.tasks[i], p)
	s.tasks[i].UpdatedAt = time.Now().UTC()
	s.persistLocked("update_task")
}

// DeleteTask removes the task outright and reports whether it existed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		s.log.WithField("task_id", id).Warn("delete: task not found")
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persistLocked("delete_task")
	return true
}

// PermanentlyDeleteTask is the archive panel's delete path; archived and
// active tasks are removed the same way.
func (s *Store) PermanentlyDeleteTask(id string) bool {
	return s.DeleteTask(id)
}

// ArchiveTask hides the task from quadrant views and compacts the
// remaining active orders of its quadrant back to 0..n-1. The archived
// task keeps its last order.
func (s *Store) ArchiveTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		s.log.WithField("task_id", id).Warn("archive: task not found")
		return
	}
	now := time.Now().UTC()
	s.tasks[i].Archived = true
	s.tasks[i].ArchivedAt = &now
	s.tasks[i].UpdatedAt = now
	s.compactQuadrantLocked(s.tasks[i].Quadrant, now)
	s.persistLocked("archive_task")
}

// compactQuadrantLocked renumbers the quadrant's non-archived tasks to
// 0..n-1 in their current relative order, bumping UpdatedAt only where
// an order actually changes.
func (s *Store) compactQuadrantLocked(q model.Quadrant, now time.Time) {
	idx := make([]int, 0, len(s.tasks))
	for i := range s.tasks {
		if s.tasks[i].Quadrant == q && !s.tasks[i].Archived {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		return s.tasks[idx[a]].Order < s.tasks[idx[b]].Order
	})
	for pos, i := range idx {
		if s.tasks[i].Order != pos {
			s.tasks[i].Order = pos
			s.tasks[i].UpdatedAt = now
		}
	}
}

// RestoreTask brings an archived task back at the end of its quadrant's
// active order.
func (s *Store) RestoreTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		s.log.WithField("task_id", id).Warn("restore: task not found")
		return
	}
	if !s.tasks[i].Archived {
		return
	}
	s.tasks[i].Order = s.countActiveLocked(s.tasks[i].Quadrant)
	s.tasks[i].Archived = false
	s.tasks[i].ArchivedAt = nil
	s.tasks[i].UpdatedAt = time.Now().UTC()
	s.persistLocked("restore_task")
}

// MoveTask changes the quadrant only. It does not recompute order; the UI
// follows up with a reorder when it needs a specific position. Archived
// tasks do not move.
func (s *Store) MoveTask(id string, q model.Quadrant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		s.log.WithField("task_id", id).Warn("move: task not found")
		return
	}
	if s.tasks[i].Archived {
		return
	}
	s.tasks[i].Quadrant = q
	s.tasks[i].UpdatedAt = time.Now().UTC()
	s.persistLocked("move_task")
}

// ReorderTasks removes activeID from the quadrant's order-sorted active
// list, reinserts it at overID's position, and renumbers the whole
// quadrant 0..n-1. A missing id or activeID == overID leaves state
// untouched.
func (s *Store) ReorderTasks(q model.Quadrant, activeID, overID string) {
	if activeID == overID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := make([]int, 0, len(s.tasks))
	for i := range s.tasks {
		if s.tasks[i].Quadrant == q && !s.tasks[i].Archived {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		return s.tasks[idx[a]].Order < s.tasks[idx[b]].Order
	})

	activePos, overPos := -1, -1
	for pos, i := range idx {
		switch s.tasks[i].ID {
		case activeID:
			activePos = pos
		case overID:
			overPos = pos
		}
	}
	if activePos < 0 || overPos < 0 {
		return
	}

	moved := idx[activePos]
	idx = append(idx[:activePos], idx[activePos+1:]...)
	idx = append(idx[:overPos], append([]int{moved}, idx[overPos:]...)...)

	now := time.Now().UTC()
	for pos, i := range idx {
		if s.tasks[i].Order != pos {
			s.tasks[i].Order = pos
			s.tasks[i].UpdatedAt = now
		}
	}
	s.persistLocked("reorder_tasks")
}

// ToggleComplete flips the completed flag.
func (s *Store) ToggleComplete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		s.log.WithField("task_id", id).Warn("toggle: task not found")
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.tasks[i].UpdatedAt = time.Now().UTC()
	s.persistLocked("toggle_complete")
}

// ClearAllTasks wipes every task and resets labels to the default
// swatches. Unconditional; any confirmation belongs to the caller.
func (s *Store) ClearAllTasks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []model.Task{}
	s.labels = model.DefaultLabels()
	s.persistLocked("clear_all_tasks")
}

func (s *Store) AddLabel(l model.Label) model.Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = newID("label")
	s.labels = append(s.labels, l)
	s.persistLocked("add_label")
	return l
}

func (s *Store) UpdateLabel(id string, p LabelPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.labelIndexLocked(id)
	if i < 0 {
		s.log.WithField("label_id", id).Warn("update: label not found")
		return
	}
	applyLabelPatch(&s.labels[i], p)
	s.persistLocked("update_label")
}

// DeleteLabel removes the label and scrubs its id from every task so no
// dangling reference survives. Affected tasks get their updatedAt bumped.
func (s *Store) DeleteLabel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.labelIndexLocked(id)
	if i < 0 {
		s.log.WithField("label_id", id).Warn("delete: label not found")
		return false
	}
	s.labels = append(s.labels[:i], s.labels[i+1:]...)

	now := time.Now().UTC()
	for ti := range s.tasks {
		t := &s.tasks[ti]
		if !t.HasLabel(id) {
			continue
		}
		kept := make([]string, 0, len(t.Labels)-1)
		for _, lid := range t.Labels {
			if lid != id {
				kept = append(kept, lid)
			}
		}
		t.Labels = kept
		t.UpdatedAt = now
	}
	s.persistLocked("delete_label")
	return true
}
