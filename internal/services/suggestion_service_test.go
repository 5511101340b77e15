package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/utils"
)

func TestSuggestSegmentAristotelian(t *testing.T) {
	tests := []struct {
		name      string
		blockType models.BlockType
		position  float64
		want      string
	}{
		{"early interview", models.BlockInterview, 10, "Setup"},
		{"interview past the opening", models.BlockInterview, 30, "Rising Action"},
		{"demo in the second stretch", models.BlockDemo, 30, "Inciting Incident"},
		{"demo too early", models.BlockDemo, 10, "Rising Action"},
		{"b-roll mid story", models.BlockBRoll, 50, "Rising Action"},
		{"anything in the crisis window", models.BlockNarration, 70, "Crisis"},
		{"late content resolves", models.BlockGraphics, 90, "Resolution"},
		{"fallback", models.BlockTitle, 45, "Rising Action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSegment(tt.blockType, tt.position, models.StructureAristotelian)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestSegmentDefaultsToThreeActs(t *testing.T) {
	tests := []struct {
		position float64
		want     string
	}{
		{0, "Setup"},
		{24.9, "Setup"},
		{25, "Confrontation"},
		{74.9, "Confrontation"},
		{75, "Resolution"},
		{100, "Resolution"},
	}

	for _, tt := range tests {
		got := SuggestSegment(models.BlockInterview, tt.position, models.StructureHerosJourney)
		assert.Equal(t, tt.want, got, "position %.1f", tt.position)
	}
}

func TestSuggestionPassAppliesWholesale(t *testing.T) {
	blocks := newTestBlockService(t)
	a := mustCreate(t, blocks, "a", models.BlockInterview, 5, true)
	b := mustCreate(t, blocks, "b", models.BlockBRoll, 5, true)
	structures, err := NewStructureService(nil)
	require.NoError(t, err)

	svc := NewSuggestionService(blocks, structures, NewNotifyService(), nil, 0)

	gen := svc.startPass()
	applied := svc.finishPass(gen, map[string]string{
		a.ID: "Setup",
		b.ID: "Confrontation",
	})
	require.True(t, applied)

	gotA, err := blocks.Get(a.ID)
	require.NoError(t, err)
	gotB, err := blocks.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Setup", gotA.SuggestedSegment)
	assert.Equal(t, "Confrontation", gotB.SuggestedSegment)
	assert.False(t, svc.Generating())
}

func TestSuggestionPassSupersede(t *testing.T) {
	blocks := newTestBlockService(t)
	a := mustCreate(t, blocks, "a", models.BlockInterview, 5, true)
	structures, err := NewStructureService(nil)
	require.NoError(t, err)

	svc := NewSuggestionService(blocks, structures, NewNotifyService(), nil, 0)

	collector := utils.GetMetricsCollector()
	supersededBefore := collector.GetCounterValue("analysis_superseded_suggestion")

	first := svc.startPass()
	second := svc.startPass()

	assert.True(t, svc.finishPass(second, map[string]string{a.ID: "fresh"}))
	assert.False(t, svc.finishPass(first, map[string]string{a.ID: "stale"}),
		"a result from a superseded pass never lands")
	assert.Equal(t, supersededBefore+1, collector.GetCounterValue("analysis_superseded_suggestion"))

	got, err := blocks.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.SuggestedSegment)
}

func TestParseSuggestionResponse(t *testing.T) {
	raw := `{"suggestions":[{"block_id":"b1","segment":"Setup"},{"block_id":"","segment":"x"},{"block_id":"b2","segment":""}]}`

	parsed, err := parseSuggestionResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b1": "Setup"}, parsed, "entries missing an id or segment are dropped")

	_, err = parseSuggestionResponse("not json")
	assert.Error(t, err)
}

func TestExtractJSONTrimsProse(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"suggestions\":[]}\n```"
	assert.Equal(t, `{"suggestions":[]}`, extractJSON(raw))

	assert.Equal(t, "no braces here", extractJSON("no braces here"))
}
