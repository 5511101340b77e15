// internal/services/metrics_service.go
package services

import (
	"github.com/junglecut/storyarc/internal/models"
)

// Score baselines and penalties for the story health metrics. Scores start
// from the baseline and only move down; the floor keeps a rough draft from
// reading as a disaster.
const (
	basePacing     = 8.2
	baseBalance    = 7.5
	baseEngagement = 9.1
	scoreFloor     = 5.0

	emptyActPacingPenalty     = 1.5
	emptyActEngagementPenalty = 1.0
	dominantTypePenalty       = 2.0
	dominantTypeShare         = 0.6

	// Blocks without a duration still count toward act distribution at a
	// nominal length.
	fallbackActDuration = 3.0
)

// MetricsService derives story health metrics from the arc. Computation is
// pure and deterministic: same blocks and acts in, same metrics out.
type MetricsService struct {
	blocks     *BlockService
	structures *StructureService
}

func NewMetricsService(blocks *BlockService, structures *StructureService) *MetricsService {
	return &MetricsService{blocks: blocks, structures: structures}
}

// Current computes metrics for the live arc against the selected structure.
func (s *MetricsService) Current() models.StoryMetrics {
	_, acts := s.structures.Current()
	return Compute(s.blocks.ArcBlocks(), acts)
}

// For computes metrics against a named structure template without changing
// the project's selection.
func (s *MetricsService) For(st models.StructureType) (models.StoryMetrics, error) {
	acts, err := s.structures.Acts(st)
	if err != nil {
		return models.StoryMetrics{}, err
	}
	return Compute(s.blocks.ArcBlocks(), acts), nil
}

// Compute derives metrics for an arc snapshot. An empty arc yields the zero
// value. Blocks whose position falls outside every act are silently excluded
// from the act distribution but still count toward type distribution.
func Compute(blocks []models.StoryBlock, acts []models.ActStructure) models.StoryMetrics {
	if len(blocks) == 0 {
		return models.StoryMetrics{}
	}

	typeCount := make(map[models.BlockType]int)
	for i := range blocks {
		typeCount[blocks[i].Type]++
	}

	actDistribution := make(map[string]float64)
	for i := range blocks {
		act := ActFor(acts, blocks[i].Position)
		if act == nil {
			continue
		}
		duration := blocks[i].Duration
		if duration == 0 {
			duration = fallbackActDuration
		}
		actDistribution[act.Name] += duration
	}

	pacing := basePacing
	balance := baseBalance
	engagement := baseEngagement

	if len(actDistribution) < len(acts) {
		pacing = floorScore(pacing - emptyActPacingPenalty)
		engagement = floorScore(engagement - emptyActEngagementPenalty)
	}

	maxTypeCount := 0
	for _, count := range typeCount {
		if count > maxTypeCount {
			maxTypeCount = count
		}
	}
	if float64(maxTypeCount) > float64(len(blocks))*dominantTypeShare {
		balance = floorScore(balance - dominantTypePenalty)
	}

	return models.StoryMetrics{
		Pacing:           pacing,
		Balance:          balance,
		Engagement:       engagement,
		ActDistribution:  actDistribution,
		ContentTypeCount: typeCount,
	}
}

func floorScore(score float64) float64 {
	if score < scoreFloor {
		return scoreFloor
	}
	return score
}
