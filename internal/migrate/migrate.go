// Package migrate upgrades persisted snapshots written under older schema
// versions to the current shape. Steps are pure, ordered, and idempotent:
// re-running a step on partially migrated data is safe. Most fields that
// are already present pass through unchanged; the one exception is the
// archive step, which actively repairs an archivedAt timestamp that
// contradicts the archived flag.
package migrate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sangkukbae/priority-matrix/internal/model"
)

// CurrentVersion is the schema version the store writes.
const CurrentVersion = 2

type step struct {
	to    int
	apply func(*model.Snapshot)
}

var steps = []step{
	{to: 1, apply: labelsFromColorTags},
	{to: 2, apply: normalizeArchiveFields},
}

// Run applies every step the snapshot's version predates and returns the
// upgraded snapshot. Snapshots already at CurrentVersion pass through
// unchanged apart from nil-slice normalization.
func Run(s model.Snapshot) model.Snapshot {
	for _, st := range steps {
		if s.Version < st.to {
			st.apply(&s)
			s.Version = st.to
		}
	}
	normalize(&s)
	return s
}

// Reset returns the snapshot a store falls back to when the persisted
// state is missing or unreadable: no tasks, default label swatches.
func Reset() model.Snapshot {
	return model.Snapshot{
		Version: CurrentVersion,
		Tasks:   []model.Task{},
		Labels:  model.DefaultLabels(),
	}
}

// labelsFromColorTags introduces the Label entity. Each distinct legacy
// colorTag maps to one shared label: an existing label with the mapped hex
// color is reused, otherwise an unnamed one with the next sequential id is
// appended. Tasks that carried the tag end up referencing that single
// label; tasks without one get an empty label list.
func labelsFromColorTags(s *model.Snapshot) {
	byColor := map[string]string{}
	for _, l := range s.Labels {
		if _, ok := byColor[l.Color]; !ok {
			byColor[l.Color] = l.ID
		}
	}
	nextSeq := maxLabelSeq(s.Labels) + 1

	for i := range s.Tasks {
		t := &s.Tasks[i]
		hex := t.ColorTag.Hex()
		if hex == "" {
			if t.Labels == nil {
				t.Labels = []string{}
			}
			t.ColorTag = ""
			continue
		}
		id, ok := byColor[hex]
		if !ok {
			id = fmt.Sprintf("label_%d", nextSeq)
			nextSeq++
			s.Labels = append(s.Labels, model.Label{ID: id, Color: hex})
			byColor[hex] = id
		}
		t.Labels = []string{id}
		t.ColorTag = ""
	}
}

// maxLabelSeq returns the highest N among ids of the form label_N, so
// synthesized ids never collide with labels the snapshot already holds.
func maxLabelSeq(labels []model.Label) int {
	max := 0
	for _, l := range labels {
		suffix, ok := strings.CutPrefix(l.ID, "label_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

// normalizeArchiveFields introduces archiving. Decoding already defaults a
// missing archived flag to false; the remaining work is scrubbing a stale
// archivedAt from tasks that are not archived. Fields already consistent
// are left untouched.
func normalizeArchiveFields(s *model.Snapshot) {
	for i := range s.Tasks {
		if !s.Tasks[i].Archived {
			s.Tasks[i].ArchivedAt = nil
		}
	}
}

func normalize(s *model.Snapshot) {
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	if s.Labels == nil {
		s.Labels = []model.Label{}
	}
	for i := range s.Tasks {
		if s.Tasks[i].Labels == nil {
			s.Tasks[i].Labels = []string{}
		}
	}
}
