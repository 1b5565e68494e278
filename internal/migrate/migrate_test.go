package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkukbae/priority-matrix/internal/model"
)

func TestRun_SharedColorTagProducesOneLabel(t *testing.T) {
	s := model.Snapshot{
		Version: 0,
		Tasks: []model.Task{
			{ID: "t1", Title: "write report", Quadrant: model.QuadrantDo, ColorTag: model.ColorTagBlue},
			{ID: "t2", Title: "review report", Quadrant: model.QuadrantPlan, ColorTag: model.ColorTagBlue},
			{ID: "t3", Title: "no tag", Quadrant: model.QuadrantDo},
		},
	}

	out := Run(s)

	require.Len(t, out.Labels, 1)
	assert.Equal(t, "#0079BF", out.Labels[0].Color)
	assert.Empty(t, out.Labels[0].Name)

	id := out.Labels[0].ID
	assert.Equal(t, []string{id}, out.Tasks[0].Labels)
	assert.Equal(t, []string{id}, out.Tasks[1].Labels)
	assert.Empty(t, out.Tasks[0].ColorTag)
	assert.Empty(t, out.Tasks[1].ColorTag)

	assert.Equal(t, []string{}, out.Tasks[2].Labels)
	assert.Equal(t, CurrentVersion, out.Version)
}

func TestRun_DistinctColorsGetDistinctLabels(t *testing.T) {
	s := model.Snapshot{
		Tasks: []model.Task{
			{ID: "t1", ColorTag: model.ColorTagGreen},
			{ID: "t2", ColorTag: model.ColorTagRed},
			{ID: "t3", ColorTag: model.ColorTagGreen},
		},
	}

	out := Run(s)

	require.Len(t, out.Labels, 2)
	assert.Equal(t, "#61BD4F", out.Labels[0].Color)
	assert.Equal(t, "#EB5A46", out.Labels[1].Color)
	assert.Equal(t, out.Tasks[0].Labels, out.Tasks[2].Labels)
	assert.NotEqual(t, out.Tasks[0].Labels, out.Tasks[1].Labels)
}

func TestRun_ReusesExistingLabelForColor(t *testing.T) {
	s := model.Snapshot{
		Labels: []model.Label{{ID: "label_1", Name: "urgent", Color: "#EB5A46"}},
		Tasks:  []model.Task{{ID: "t1", ColorTag: model.ColorTagRed}},
	}

	out := Run(s)

	require.Len(t, out.Labels, 1)
	assert.Equal(t, []string{"label_1"}, out.Tasks[0].Labels)
}

func TestRun_SynthesizedIDSkipsExistingLabels(t *testing.T) {
	s := model.Snapshot{
		Labels: []model.Label{{ID: "label_2", Name: "work", Color: "#AA0000"}},
		Tasks:  []model.Task{{ID: "t1", ColorTag: model.ColorTagGreen}},
	}

	out := Run(s)

	require.Len(t, out.Labels, 2)
	assert.Equal(t, "label_3", out.Labels[1].ID)
	assert.Equal(t, "#61BD4F", out.Labels[1].Color)
	assert.Equal(t, []string{"label_3"}, out.Tasks[0].Labels)
}

func TestRun_ScrubsStaleArchivedAt(t *testing.T) {
	ts := time.Now()
	s := model.Snapshot{
		Version: 1,
		Tasks: []model.Task{
			{ID: "t1", Archived: false, ArchivedAt: &ts, Labels: []string{}},
			{ID: "t2", Archived: true, ArchivedAt: &ts, Labels: []string{}},
		},
	}

	out := Run(s)

	assert.Nil(t, out.Tasks[0].ArchivedAt)
	require.NotNil(t, out.Tasks[1].ArchivedAt)
	assert.Equal(t, ts, *out.Tasks[1].ArchivedAt)
}

func TestRun_Idempotent(t *testing.T) {
	s := model.Snapshot{
		Version: 0,
		Tasks: []model.Task{
			{ID: "t1", ColorTag: model.ColorTagYellow},
			{ID: "t2", Archived: true},
		},
	}

	once := Run(s)
	twice := Run(once)

	assert.Equal(t, once, twice)
}

func TestRun_CurrentVersionPassesThrough(t *testing.T) {
	ts := time.Now()
	s := model.Snapshot{
		Version: CurrentVersion,
		Tasks: []model.Task{
			{ID: "t1", Labels: []string{"label_9"}, Archived: true, ArchivedAt: &ts},
		},
		Labels: []model.Label{{ID: "label_9", Name: "home", Color: "#0079BF"}},
	}

	out := Run(s)
	assert.Equal(t, s, out)
}

func TestReset_DefaultSwatches(t *testing.T) {
	s := Reset()
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Empty(t, s.Tasks)
	require.Len(t, s.Labels, 4)
	assert.Equal(t, "#61BD4F", s.Labels[0].Color)
	assert.Equal(t, "#0079BF", s.Labels[2].Color)
}
