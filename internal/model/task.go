package model

import "time"

// Quadrant is one of the four Eisenhower matrix buckets a task lives in.
type Quadrant string

const (
	QuadrantDo       Quadrant = "DO"
	QuadrantPlan     Quadrant = "PLAN"
	QuadrantDelegate Quadrant = "DELEGATE"
	QuadrantDelete   Quadrant = "DELETE"
)

// Quadrants lists all quadrants in display order.
var Quadrants = []Quadrant{QuadrantDo, QuadrantPlan, QuadrantDelegate, QuadrantDelete}

func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantDo, QuadrantPlan, QuadrantDelegate, QuadrantDelete:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

// ColorTag is the legacy single-color tag that predates labels. It only
// survives in old snapshots; migration folds it into the label list.
type ColorTag string

const (
	ColorTagGreen  ColorTag = "green"
	ColorTagYellow ColorTag = "yellow"
	ColorTagBlue   ColorTag = "blue"
	ColorTagRed    ColorTag = "red"
)

// Hex returns the canonical hex color for a legacy tag, or "" for an
// unknown tag.
func (c ColorTag) Hex() string {
	switch c {
	case ColorTagGreen:
		return "#61BD4F"
	case ColorTagYellow:
		return "#F2D600"
	case ColorTagBlue:
		return "#0079BF"
	case ColorTagRed:
		return "#EB5A46"
	}
	return ""
}

type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is a card on the board. Order is the position within its quadrant
// among non-archived tasks; archived tasks keep their last order but are
// excluded from quadrant views.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Quadrant    Quadrant        `json:"quadrant"`
	Priority    Priority        `json:"priority"`
	Labels      []string        `json:"labels"`
	ColorTag    ColorTag        `json:"colorTag,omitempty"`
	DueDate     *string         `json:"dueDate,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
	Completed   bool            `json:"completed"`
	Archived    bool            `json:"archived"`
	ArchivedAt  *time.Time      `json:"archivedAt,omitempty"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (t *Task) HasLabel(id string) bool {
	for _, l := range t.Labels {
		if l == id {
			return true
		}
	}
	return false
}
