package store

import "github.com/sangkukbae/priority-matrix/internal/model"

// TaskPatch represents a partial update.
// nil pointer => "no change"
// empty string for DueDate => clear (set to nil)
type TaskPatch struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Quadrant    *model.Quadrant        `json:"quadrant,omitempty"`
	Priority    *model.Priority        `json:"priority,omitempty"`
	Labels      *[]string              `json:"labels,omitempty"`
	DueDate     *string                `json:"dueDate,omitempty"`
	Checklist   *[]model.ChecklistItem `json:"checklist,omitempty"`
	Completed   *bool                  `json:"completed,omitempty"`
}

func applyTaskPatch(t *model.Task, p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Quadrant != nil {
		t.Quadrant = *p.Quadrant
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.Labels != nil {
		// treat nil slice as empty slice
		if *p.Labels == nil {
			t.Labels = []string{}
		} else {
			t.Labels = *p.Labels
		}
	}

	// pointer string field with "empty clears" semantics
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = nil
		} else {
			t.DueDate = p.DueDate
		}
	}

	if p.Checklist != nil {
		if *p.Checklist == nil {
			t.Checklist = nil
		} else {
			t.Checklist = *p.Checklist
		}
	}

	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

type LabelPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func applyLabelPatch(l *model.Label, p LabelPatch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
}
