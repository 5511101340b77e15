package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/models"
)

func newTestBlockService(t *testing.T) *BlockService {
	t.Helper()
	s, err := NewBlockService(nil)
	require.NoError(t, err)
	return s
}

func mustCreate(t *testing.T, s *BlockService, title string, blockType models.BlockType, duration float64, inArc bool) *models.ContentBlock {
	t.Helper()
	block, err := s.Create(CreateParams{
		Title:      title,
		Type:       blockType,
		Duration:   duration,
		InStoryArc: inArc,
	})
	require.NoError(t, err)
	return block
}

func arcIDs(s *BlockService) []string {
	arc := s.ArcBlocks()
	ids := make([]string, len(arc))
	for i := range arc {
		ids[i] = arc[i].ID
	}
	return ids
}

func TestCreateAssignsSequenceAndDefaults(t *testing.T) {
	s := newTestBlockService(t)

	a := mustCreate(t, s, "a", models.BlockInterview, 0, true)
	b := mustCreate(t, s, "b", models.BlockBRoll, 4, true)
	idea := mustCreate(t, s, "idea", models.BlockDemo, 2, false)

	assert.Equal(t, 0, a.Sequence)
	assert.Equal(t, 1, b.Sequence)
	assert.Equal(t, 0, idea.Sequence, "idea pool numbers independently")
	assert.Equal(t, models.DefaultBlockDuration, a.Duration, "zero duration falls back to default")
}

func TestCreateValidation(t *testing.T) {
	s := newTestBlockService(t)

	_, err := s.Create(CreateParams{Type: models.BlockInterview})
	assert.Error(t, err, "missing title")

	_, err = s.Create(CreateParams{Title: "x", Type: models.BlockType("podcast")})
	assert.Error(t, err, "unknown type")
}

func TestMoveRenumbersDensely(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, s, "b", models.BlockBRoll, 5, true)
	c := mustCreate(t, s, "c", models.BlockDemo, 5, true)

	moved, err := s.Move(c.ID, 0)
	require.NoError(t, err)
	assert.True(t, moved)

	assert.Equal(t, []string{c.ID, a.ID, b.ID}, arcIDs(s))
	for i, blk := range s.ArcBlocks() {
		assert.Equal(t, i, blk.Sequence, "sequences stay dense after a move")
	}
}

func TestMoveClampsAndNoOps(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, s, "b", models.BlockBRoll, 5, true)

	moved, err := s.Move(a.ID, 99)
	require.NoError(t, err, "out-of-range index clamps to the end")
	assert.True(t, moved)
	assert.Equal(t, []string{b.ID, a.ID}, arcIDs(s))

	moved, err = s.Move(a.ID, 1)
	require.NoError(t, err)
	assert.False(t, moved, "moving to own index is a no-op")
	assert.Equal(t, []string{b.ID, a.ID}, arcIDs(s))

	moved, err = s.Move("no-such-id", 0)
	require.NoError(t, err)
	assert.False(t, moved, "unknown id is a silent no-op")
	assert.Equal(t, []string{b.ID, a.ID}, arcIDs(s))
}

func TestMoveStaysWithinGroup(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)
	idea := mustCreate(t, s, "idea", models.BlockDemo, 5, false)

	_, err := s.Move(idea.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{a.ID}, arcIDs(s), "idea moves never touch the arc")
	ideas := s.IdeaBlocks()
	require.Len(t, ideas, 1)
	assert.Equal(t, idea.ID, ideas[0].ID)
}

func TestRemoveRenumbers(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, s, "b", models.BlockBRoll, 5, true)
	c := mustCreate(t, s, "c", models.BlockDemo, 5, true)

	require.NoError(t, s.Remove(b.ID))

	arc := s.ArcBlocks()
	require.Len(t, arc, 2)
	assert.Equal(t, []string{a.ID, c.ID}, arcIDs(s))
	assert.Equal(t, 0, arc[0].Sequence)
	assert.Equal(t, 1, arc[1].Sequence)

	assert.Error(t, s.Remove(b.ID), "removing twice reports not found")
}

func TestSetArcMembershipAppendsToTargetGroup(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, s, "b", models.BlockBRoll, 5, true)
	idea := mustCreate(t, s, "idea", models.BlockDemo, 5, false)

	moved, err := s.SetArcMembership(idea.ID, true)
	require.NoError(t, err)
	assert.True(t, moved.InStoryArc)
	assert.Equal(t, []string{a.ID, b.ID, idea.ID}, arcIDs(s), "joins at the end of the arc")

	// Pull the middle block out and check both groups renumber.
	_, err = s.SetArcMembership(b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, idea.ID}, arcIDs(s))
	for i, blk := range s.ArcBlocks() {
		assert.Equal(t, i, blk.Sequence)
	}
	ideas := s.IdeaBlocks()
	require.Len(t, ideas, 1)
	assert.Equal(t, 0, ideas[0].Sequence)
}

func TestArcPositionsDerivedFromDurations(t *testing.T) {
	s := newTestBlockService(t)
	mustCreate(t, s, "a", models.BlockInterview, 5, true)
	mustCreate(t, s, "b", models.BlockBRoll, 5, true)

	arc := s.ArcBlocks()
	require.Len(t, arc, 2)
	assert.InDelta(t, 0, arc[0].Position, 1e-9)
	assert.InDelta(t, 50, arc[1].Position, 1e-9)
}

func TestArcPositionsUnevenDurations(t *testing.T) {
	s := newTestBlockService(t)
	mustCreate(t, s, "a", models.BlockInterview, 2, true)
	mustCreate(t, s, "b", models.BlockBRoll, 6, true)
	mustCreate(t, s, "c", models.BlockDemo, 2, true)

	arc := s.ArcBlocks()
	require.Len(t, arc, 3)
	assert.InDelta(t, 0, arc[0].Position, 1e-9)
	assert.InDelta(t, 20, arc[1].Position, 1e-9)
	assert.InDelta(t, 80, arc[2].Position, 1e-9)
}

func TestUpdatePatchesFields(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)

	title := "opening interview"
	duration := 7.5
	updated, err := s.Update(a.ID, BlockPatch{Title: &title, Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, "opening interview", updated.Title)
	assert.Equal(t, 7.5, updated.Duration)
	assert.Equal(t, models.BlockInterview, updated.Type, "unpatched fields keep their values")

	bad := -1.0
	_, err = s.Update(a.ID, BlockPatch{Duration: &bad})
	assert.Error(t, err)

	gone, err := s.Update("missing", BlockPatch{Title: &title})
	require.NoError(t, err, "a stale id is a silent no-op, not an error")
	assert.Nil(t, gone)
}

func TestApplySuggestionsSkipsUnknownIDs(t *testing.T) {
	s := newTestBlockService(t)
	a := mustCreate(t, s, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, s, "b", models.BlockBRoll, 5, true)

	applied, err := s.ApplySuggestions(map[string]string{
		a.ID:      "Setup",
		b.ID:      "Resolution",
		"deleted": "Crisis",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	gotA, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Setup", gotA.SuggestedSegment)
}
