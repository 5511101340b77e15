package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junglecut/storyarc/internal/models"
)

func TestDropZoneTarget(t *testing.T) {
	tests := []struct {
		name         string
		zoneIndex    int
		draggedIndex int
		want         int
	}{
		{"zone before dragged item", 0, 2, 0},
		{"zone at dragged item", 2, 2, 2},
		{"zone just after dragged item", 3, 2, 2},
		{"zone well after dragged item", 5, 2, 4},
		{"first item to last gap", 3, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropZoneTarget(tt.zoneIndex, tt.draggedIndex))
		})
	}
}

func TestHoverTarget(t *testing.T) {
	assert.Equal(t, 2, HoverTarget(2, true), "top half targets the gap before")
	assert.Equal(t, 3, HoverTarget(2, false), "bottom half targets the gap after")
}

func TestHoverInsertIndex(t *testing.T) {
	assert.Equal(t, 1, HoverInsertIndex(1, 3))
	assert.Equal(t, 3, HoverInsertIndex(4, 3), "gaps past the dragged item shift left")
}

func TestTimelineTarget(t *testing.T) {
	blocks := []models.StoryBlock{
		{Position: 0},
		{Position: 25},
		{Position: 50},
		{Position: 75},
	}

	tests := []struct {
		name string
		drop float64
		want int
	}{
		{"before everything", -5, 0},
		{"between first and second", 10, 1},
		{"exactly on a position goes after it", 50, 3},
		{"after everything appends", 90, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimelineTarget(blocks, tt.drop))
		})
	}

	assert.Equal(t, 0, TimelineTarget(nil, 50), "empty arc always targets zero")
}
