package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/models"
)

func TestLayoutScaleFloorsAtTenMinutes(t *testing.T) {
	blocks := newTestBlockService(t)
	mustCreate(t, blocks, "a", models.BlockInterview, 2, true)

	layout := NewTimelineService(blocks).Layout(0)

	assert.Equal(t, 10.0, layout.EffectiveScale)
	assert.Equal(t, 2.0, layout.TotalDuration)
}

func TestLayoutScaleGrowsWithContent(t *testing.T) {
	blocks := newTestBlockService(t)
	mustCreate(t, blocks, "a", models.BlockInterview, 10, true)
	mustCreate(t, blocks, "b", models.BlockBRoll, 20, true)

	layout := NewTimelineService(blocks).Layout(15)

	require.Equal(t, 30.0, layout.EffectiveScale, "content longer than the requested scale wins")
	require.Len(t, layout.Segments, 2)

	assert.InDelta(t, 0, layout.Segments[0].Start, 1e-9)
	assert.InDelta(t, 100.0/3, layout.Segments[0].Width, 1e-9)
	assert.InDelta(t, 100.0/3, layout.Segments[1].Start, 1e-9)
	assert.InDelta(t, 200.0/3, layout.Segments[1].Width, 1e-9)
}

func TestLayoutMinimumSegmentWidth(t *testing.T) {
	blocks := newTestBlockService(t)
	mustCreate(t, blocks, "tiny", models.BlockTransition, 1, true)
	mustCreate(t, blocks, "long", models.BlockInterview, 99, true)

	layout := NewTimelineService(blocks).Layout(0)

	require.Len(t, layout.Segments, 2)
	assert.Equal(t, 8.0, layout.Segments[0].Width, "short blocks stay clickable")
}

func TestLayoutEmptyArc(t *testing.T) {
	blocks := newTestBlockService(t)

	layout := NewTimelineService(blocks).Layout(0)

	assert.Equal(t, 10.0, layout.EffectiveScale)
	assert.Empty(t, layout.Segments)
	assert.Equal(t, []float64{0, 5, 10}, layout.Markers)
}

func TestTimeMarkers(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  []float64
	}{
		{"short scale uses 5 minute ticks", 30, []float64{0, 5, 10, 15, 20, 25, 30}},
		{"medium scale uses 10 minute ticks", 45, []float64{0, 10, 20, 30, 40, 50}},
		{"hour scale uses 10 minute ticks", 60, []float64{0, 10, 20, 30, 40, 50, 60}},
		{"long scale uses 15 minute ticks", 90, []float64{0, 15, 30, 45, 60, 75, 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeMarkers(tt.scale))
		})
	}
}
