package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/models"
)

// fakeClock lets tests step the drag session's rate limiter deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestDragSession(t *testing.T) (*DragSession, *BlockService, *fakeClock, []*models.ContentBlock) {
	t.Helper()

	blocks := newTestBlockService(t)
	a := mustCreate(t, blocks, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, blocks, "b", models.BlockBRoll, 5, true)
	c := mustCreate(t, blocks, "c", models.BlockDemo, 5, true)

	session := NewDragSession(blocks, NewNotifyService(), 150*time.Millisecond)
	clock := &fakeClock{now: time.Unix(1000, 0)}
	session.now = clock.Now

	return session, blocks, clock, []*models.ContentBlock{a, b, c}
}

func TestDragStartRequiresArcBlock(t *testing.T) {
	session, blocks, _, _ := newTestDragSession(t)
	idea := mustCreate(t, blocks, "idea", models.BlockDemo, 5, false)

	assert.Error(t, session.Start(idea.ID))
	assert.Error(t, session.Start("missing"))
	assert.Equal(t, DragIdle, session.Status().State)
}

func TestDragLifecycle(t *testing.T) {
	session, _, _, items := newTestDragSession(t)

	require.NoError(t, session.Start(items[0].ID))
	status := session.Status()
	assert.Equal(t, DragDragging, status.State)
	assert.Equal(t, items[0].ID, status.DraggedID)

	_, err := session.Hover(1, false)
	require.NoError(t, err)
	assert.Equal(t, DragHovering, session.Status().State)

	session.Leave()
	assert.Equal(t, DragDragging, session.Status().State)
	assert.Equal(t, -1, session.Status().HoverGap)

	session.Cancel()
	assert.Equal(t, DragIdle, session.Status().State)
	assert.Empty(t, session.Status().DraggedID)
}

func TestHoverCommitsAndRateLimits(t *testing.T) {
	session, blocks, clock, items := newTestDragSession(t)
	require.NoError(t, session.Start(items[0].ID))

	// First hover commit is immediate.
	committed, err := session.Hover(2, false)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, []string{items[1].ID, items[2].ID, items[0].ID}, arcIDs(blocks))

	// A second hover inside the gap is recorded but not committed.
	clock.Advance(100 * time.Millisecond)
	committed, err = session.Hover(0, true)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, []string{items[1].ID, items[2].ID, items[0].ID}, arcIDs(blocks))

	// Once the gap has passed the commit goes through.
	clock.Advance(100 * time.Millisecond)
	committed, err = session.Hover(0, true)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, []string{items[0].ID, items[1].ID, items[2].ID}, arcIDs(blocks))
}

func TestHoverWithoutDragIsIgnored(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)

	committed, err := session.Hover(1, false)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, []string{items[0].ID, items[1].ID, items[2].ID}, arcIDs(blocks))
}

func TestDropOnZone(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)
	require.NoError(t, session.Start(items[2].ID))

	moved, err := session.DropOnZone(0)
	require.NoError(t, err)
	assert.True(t, moved)

	assert.Equal(t, []string{items[2].ID, items[0].ID, items[1].ID}, arcIDs(blocks))
	assert.Equal(t, DragIdle, session.Status().State, "drop always resets the session")
	require.Len(t, session.notify.Recent(0), 1)
}

func TestDropOnZoneAfterDraggedAdjusts(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)
	require.NoError(t, session.Start(items[0].ID))

	// Gap index 2 sits after the dragged item, so it lands at index 1.
	moved, err := session.DropOnZone(2)
	require.NoError(t, err)
	assert.True(t, moved)

	assert.Equal(t, []string{items[1].ID, items[0].ID, items[2].ID}, arcIDs(blocks))
}

func TestDropOnAdjacentZoneIsSilent(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)
	require.NoError(t, session.Start(items[2].ID))

	// The gap just after the dragged item resolves back to its own index.
	moved, err := session.DropOnZone(3)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Equal(t, []string{items[0].ID, items[1].ID, items[2].ID}, arcIDs(blocks))
	assert.Empty(t, session.notify.Recent(0), "a no-op drop emits nothing")
	assert.Equal(t, DragIdle, session.Status().State, "the session still resets")
}

func TestDropAtTimeline(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)
	require.NoError(t, session.Start(items[0].ID))

	// Positions are 0, 33.3, 66.6; dropping at 90% lands after everything.
	moved, err := session.DropAtTimeline(90)
	require.NoError(t, err)
	assert.True(t, moved)

	assert.Equal(t, []string{items[1].ID, items[2].ID, items[0].ID}, arcIDs(blocks))
	assert.Equal(t, DragIdle, session.Status().State)
}

func TestDropAtOwnTimelinePositionIsSilent(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)
	require.NoError(t, session.Start(items[0].ID))

	// Positions are 0, 33.3, 66.6; nothing exceeds -1, so the target is the
	// first slot, where the dragged block already sits.
	moved, err := session.DropAtTimeline(-1)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Equal(t, []string{items[0].ID, items[1].ID, items[2].ID}, arcIDs(blocks))
	assert.Empty(t, session.notify.Recent(0))
}

func TestDropWhileIdleIsNoOp(t *testing.T) {
	session, blocks, _, items := newTestDragSession(t)

	moved, err := session.DropOnZone(0)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = session.DropAtTimeline(50)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Equal(t, []string{items[0].ID, items[1].ID, items[2].ID}, arcIDs(blocks))
	assert.Empty(t, session.notify.Recent(0))
}
