// internal/services/drag_service.go
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/junglecut/storyarc/internal/errors"
	"github.com/junglecut/storyarc/internal/models"
)

// DragState is the phase of the current drag gesture.
type DragState string

const (
	DragIdle     DragState = "idle"
	DragDragging DragState = "dragging"
	DragHovering DragState = "hovering"
)

// DefaultHoverCommitGap is the minimum spacing between mid-drag reorder
// commits while hovering.
const DefaultHoverCommitGap = 150 * time.Millisecond

// DragSession tracks one in-flight drag over the story arc list. Hovering
// commits reorders live, rate-limited so a jittery pointer does not thrash
// the order; the terminal drop, cancel, or end always resets to idle.
type DragSession struct {
	mu sync.Mutex

	blocks *BlockService
	notify *NotifyService

	state      DragState
	draggedID  string
	hoverGap   int
	lastCommit time.Time
	commitGap  time.Duration
	now        func() time.Time
}

// DragStatus is the externally visible session state.
type DragStatus struct {
	State     DragState `json:"state"`
	DraggedID string    `json:"dragged_id,omitempty"`
	HoverGap  int       `json:"hover_gap"`
}

func NewDragSession(blocks *BlockService, notify *NotifyService, commitGap time.Duration) *DragSession {
	if commitGap <= 0 {
		commitGap = DefaultHoverCommitGap
	}
	return &DragSession{
		blocks:    blocks,
		notify:    notify,
		state:     DragIdle,
		hoverGap:  -1,
		commitGap: commitGap,
		now:       time.Now,
	}
}

// Status returns the current session state.
func (d *DragSession) Status() DragStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DragStatus{State: d.state, DraggedID: d.draggedID, HoverGap: d.hoverGap}
}

// Start begins a drag for the given arc block.
func (d *DragSession) Start(blockID string) error {
	block, err := d.blocks.Get(blockID)
	if err != nil {
		return err
	}
	if !block.InStoryArc {
		return errors.NewValidationError("block is not in the story arc: "+blockID, nil)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = DragDragging
	d.draggedID = blockID
	d.hoverGap = -1
	d.lastCommit = time.Time{}
	return nil
}

// Hover records the pointer over an item and, when the rate limit allows,
// commits the implied reorder immediately. It reports whether a commit
// happened. Hovering with no active drag is ignored.
func (d *DragSession) Hover(targetIndex int, topHalf bool) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DragIdle {
		return false, nil
	}

	gap := HoverTarget(targetIndex, topHalf)
	d.state = DragHovering
	d.hoverGap = gap

	now := d.now()
	if !d.lastCommit.IsZero() && now.Sub(d.lastCommit) <= d.commitGap {
		return false, nil
	}

	arc := d.blocks.ArcBlocks()
	draggedIndex := indexOf(arc, d.draggedID)
	if draggedIndex == -1 || draggedIndex == gap {
		return false, nil
	}

	insertAt := HoverInsertIndex(gap, draggedIndex)
	moved, err := d.blocks.Move(d.draggedID, insertAt)
	if err != nil || !moved {
		return false, err
	}
	d.lastCommit = now
	return true, nil
}

// Leave clears the hover highlight but keeps the drag alive.
func (d *DragSession) Leave() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DragHovering {
		d.state = DragDragging
	}
	d.hoverGap = -1
}

// DropOnZone finishes the drag in the gap at zoneIndex. It reports whether
// the order changed; a drop back into the block's own slot, or with no
// active drag, stays silent.
func (d *DragSession) DropOnZone(zoneIndex int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DragIdle {
		return false, nil
	}
	draggedID := d.draggedID
	d.resetLocked()

	arc := d.blocks.ArcBlocks()
	draggedIndex := indexOf(arc, draggedID)
	if draggedIndex == -1 {
		return false, nil
	}

	insertAt := DropZoneTarget(zoneIndex, draggedIndex)
	moved, err := d.blocks.Move(draggedID, insertAt)
	if err != nil || !moved {
		return false, err
	}

	if block, err := d.blocks.Get(draggedID); err == nil {
		d.notify.Emit(NotifySuccess, fmt.Sprintf("Moved %q", block.Title), "")
	}
	return true, nil
}

// DropAtTimeline finishes the drag at a timeline percentage position. Like
// DropOnZone it reports whether the order changed and stays silent on a
// no-op.
func (d *DragSession) DropAtTimeline(dropPosition float64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DragIdle {
		return false, nil
	}
	draggedID := d.draggedID
	d.resetLocked()

	arc := d.blocks.ArcBlocks()
	if indexOf(arc, draggedID) == -1 {
		return false, nil
	}

	insertAt := TimelineTarget(arc, dropPosition)
	moved, err := d.blocks.Move(draggedID, insertAt)
	if err != nil || !moved {
		return false, err
	}

	if block, err := d.blocks.Get(draggedID); err == nil {
		d.notify.Emit(NotifySuccess, fmt.Sprintf("Repositioned %q", block.Title), "")
	}
	return true, nil
}

// Cancel abandons the drag without reordering.
func (d *DragSession) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *DragSession) resetLocked() {
	d.state = DragIdle
	d.draggedID = ""
	d.hoverGap = -1
	d.lastCommit = time.Time{}
}

func indexOf(blocks []models.StoryBlock, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}
