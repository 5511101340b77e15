package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/utils"
)

func insightMessages(insights []models.Insight) []string {
	out := make([]string, len(insights))
	for i := range insights {
		out[i] = insights[i].Message
	}
	return out
}

func TestGenerateInsightsEmptyActs(t *testing.T) {
	arc := arcOf(storyBlock(models.BlockInterview, 5, 0))

	insights := GenerateInsights(arc, threeActs())

	messages := insightMessages(insights)
	assert.Contains(t, messages, "The Confrontation act is currently empty. Consider adding content to maintain narrative flow.")
	assert.Contains(t, messages, "The Resolution act is currently empty. Consider adding content to maintain narrative flow.")
	assert.NotContains(t, messages, "The Setup act is currently empty. Consider adding content to maintain narrative flow.")
}

func TestGenerateInsightsShortAct(t *testing.T) {
	// Confrontation spans half the story but holds 1 of 21 minutes.
	arc := arcOf(
		storyBlock(models.BlockInterview, 10, 0),
		storyBlock(models.BlockBRoll, 1, 50),
		storyBlock(models.BlockDemo, 10, 80),
	)

	insights := GenerateInsights(arc, threeActs())

	assert.Contains(t, insightMessages(insights),
		"The Confrontation act seems short relative to its importance. Consider expanding content here.")
}

func TestGenerateInsightsOverlongAct(t *testing.T) {
	// Resolution is a quarter of the story but holds over half the minutes.
	arc := arcOf(
		storyBlock(models.BlockInterview, 4, 0),
		storyBlock(models.BlockBRoll, 4, 50),
		storyBlock(models.BlockDemo, 12, 80),
	)

	insights := GenerateInsights(arc, threeActs())

	assert.Contains(t, insightMessages(insights),
		"The Resolution act is much longer than typical. Consider tightening content or moving some to adjacent acts.")
}

func TestGenerateInsightsBalancedSuccess(t *testing.T) {
	arc := arcOf(
		storyBlock(models.BlockInterview, 5, 0),
		storyBlock(models.BlockPieceToCamera, 10, 30),
		storyBlock(models.BlockBRoll, 5, 60),
		storyBlock(models.BlockDemo, 5, 80),
	)

	insights := GenerateInsights(arc, threeActs())

	assert.Contains(t, insightMessages(insights),
		"Act structure is well-balanced! The content distribution across your story follows recommended patterns.")
}

func TestGenerateInsightsTypeVariety(t *testing.T) {
	t.Run("low variety warns", func(t *testing.T) {
		arc := arcOf(
			storyBlock(models.BlockInterview, 5, 0),
			storyBlock(models.BlockInterview, 5, 30),
			storyBlock(models.BlockBRoll, 5, 60),
			storyBlock(models.BlockInterview, 5, 90),
		)

		insights := GenerateInsights(arc, threeActs())
		assert.Contains(t, insightMessages(insights),
			"Consider adding more variety in content types. Using multiple formats keeps viewers engaged.")
	})

	t.Run("high variety celebrates", func(t *testing.T) {
		arc := arcOf(
			storyBlock(models.BlockInterview, 5, 0),
			storyBlock(models.BlockPieceToCamera, 5, 30),
			storyBlock(models.BlockBRoll, 5, 60),
			storyBlock(models.BlockDemo, 5, 90),
		)

		insights := GenerateInsights(arc, threeActs())
		assert.Contains(t, insightMessages(insights),
			"Good content variety! Using multiple formats creates a dynamic viewing experience.")
	})
}

func TestGenerateInsightsFormatNudges(t *testing.T) {
	arc := arcOf(
		storyBlock(models.BlockNarration, 5, 0),
		storyBlock(models.BlockGraphics, 5, 50),
		storyBlock(models.BlockDemo, 5, 90),
	)

	insights := GenerateInsights(arc, threeActs())
	messages := insightMessages(insights)

	assert.Contains(t, messages,
		"Adding expert interviews could strengthen credibility and provide authoritative perspectives.")
	assert.Contains(t, messages,
		"Consider adding B-roll footage to create visual interest and context for your narrative.")
}

func TestGenerateInsightsRuleOrder(t *testing.T) {
	// Empty-act warnings always come before balance and variety findings.
	arc := arcOf(
		storyBlock(models.BlockNarration, 5, 0),
		storyBlock(models.BlockGraphics, 5, 10),
		storyBlock(models.BlockDemo, 5, 20),
	)

	insights := GenerateInsights(arc, threeActs())
	require.NotEmpty(t, insights)

	assert.Equal(t, models.InsightWarning, insights[0].Type)
	assert.Contains(t, insights[0].Message, "currently empty")
}

func TestInsightPassSupersede(t *testing.T) {
	blocks := newTestBlockService(t)
	mustCreate(t, blocks, "a", models.BlockInterview, 5, true)
	structures, err := NewStructureService(nil)
	require.NoError(t, err)

	svc := NewInsightService(blocks, structures, NewNotifyService(), time.Duration(0))

	collector := utils.GetMetricsCollector()
	passesBefore := collector.GetCounterValue("analysis_passes_insight")
	supersededBefore := collector.GetCounterValue("analysis_superseded_insight")

	first := svc.startPass()
	second := svc.startPass()

	stale := []models.Insight{{Type: models.InsightInfo, Message: "stale"}}
	fresh := []models.Insight{{Type: models.InsightInfo, Message: "fresh"}}

	assert.True(t, svc.finishPass(second, fresh), "latest pass publishes")
	assert.False(t, svc.finishPass(first, stale), "superseded pass is dropped whole")

	assert.Equal(t, passesBefore+2, collector.GetCounterValue("analysis_passes_insight"))
	assert.Equal(t, supersededBefore+1, collector.GetCounterValue("analysis_superseded_insight"))

	insights, running := svc.Insights()
	assert.False(t, running)
	require.Len(t, insights, 1)
	assert.Equal(t, "fresh", insights[0].Message)
}
