package store

import (
	"sort"

	"github.com/sangkukbae/priority-matrix/internal/model"
)

// Query helpers. All are recomputed from current state on every call;
// there are no cached indexes at this scale.

func (s *Store) TaskByID(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) LabelByID(id string) (model.Label, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.labelIndexLocked(id)
	if i < 0 {
		return model.Label{}, false
	}
	return s.labels[i], true
}

// Tasks returns a copy of every task, archived included.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Labels() []model.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Label(nil), s.labels...)
}

// TasksByQuadrant returns the quadrant's non-archived tasks in board
// order.
func (s *Store) TasksByQuadrant(q model.Quadrant) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Task{}
	for i := range s.tasks {
		if s.tasks[i].Quadrant == q && !s.tasks[i].Archived {
			out = append(out, s.tasks[i])
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].Order < out[b].Order
	})
	return out
}

// ArchivedTasks returns archived tasks newest-first. Tasks missing an
// archivedAt (pre-v2 data) sort as oldest.
func (s *Store) ArchivedTasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Task{}
	for i := range s.tasks {
		if s.tasks[i].Archived {
			out = append(out, s.tasks[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		ta, tb := out[a].ArchivedAt, out[b].ArchivedAt
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return ta.After(*tb)
		}
	})
	return out
}

// TaskStats counts non-archived tasks per quadrant. Every quadrant is
// present in the result, zero or not.
func (s *Store) TaskStats() map[model.Quadrant]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[model.Quadrant]int{}
	for _, q := range model.Quadrants {
		stats[q] = 0
	}
	for i := range s.tasks {
		if !s.tasks[i].Archived {
			stats[s.tasks[i].Quadrant]++
		}
	}
	return stats
}
