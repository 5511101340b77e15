// internal/services/reorder.go
package services

import "github.com/junglecut/storyarc/internal/models"

// Target-index math for the three drop gestures. These are pure functions so
// the geometry is testable apart from the drag session state.

// DropZoneTarget converts a gap index (0..N, the slot between items) into the
// insertion index for a list that has already had the dragged item removed.
// Gaps after the dragged item shift left by one once the item is out.
func DropZoneTarget(zoneIndex, draggedIndex int) int {
	if zoneIndex > draggedIndex {
		return zoneIndex - 1
	}
	return zoneIndex
}

// HoverTarget maps a hovered item index and pointer half to the highlighted
// gap: the top half of an item targets the gap before it, the bottom half the
// gap after.
func HoverTarget(hoverIndex int, topHalf bool) int {
	if topHalf {
		return hoverIndex
	}
	return hoverIndex + 1
}

// HoverInsertIndex converts a highlighted gap into the insertion index used
// for the mid-drag commit, compensating for the dragged item's removal the
// same way DropZoneTarget does.
func HoverInsertIndex(gapIndex, draggedIndex int) int {
	if gapIndex > draggedIndex {
		return gapIndex - 1
	}
	return gapIndex
}

// TimelineTarget resolves a drop at a timeline percentage to a sequence
// index: the first block whose position exceeds the drop point, or one past
// the end when the drop lands after every block.
func TimelineTarget(blocks []models.StoryBlock, dropPosition float64) int {
	target := 0
	for i := range blocks {
		if dropPosition < blocks[i].Position {
			return i
		}
		target = i + 1
	}
	return target
}
