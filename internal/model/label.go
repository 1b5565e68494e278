package model

import "fmt"

// Label is a named color chip tasks reference by id. Name may be empty;
// the UI renders an unlabeled swatch in that case.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB
}

// DefaultLabels returns the swatches a fresh store starts with: the four
// legacy colors, unnamed, with sequential ids. The v1 migration maps old
// colorTags onto the same palette, so migrated and fresh stores agree.
func DefaultLabels() []Label {
	colors := []string{
		ColorTagGreen.Hex(),
		ColorTagYellow.Hex(),
		ColorTagBlue.Hex(),
		ColorTagRed.Hex(),
	}
	labels := make([]Label, 0, len(colors))
	for i, c := range colors {
		labels = append(labels, Label{
			ID:    fmt.Sprintf("label_%d", i+1),
			Color: c,
		})
	}
	return labels
}
