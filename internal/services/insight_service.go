// internal/services/insight_service.go
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/utils"
)

// Act-balance thresholds: an act holding less than half its expected share
// of content reads short, more than one and a half times reads overlong.
const (
	shortActRatio    = 0.5
	overlongActRatio = 1.5
)

// InsightService runs structural analysis over the arc. Analysis is modeled
// as an asynchronous pass: it snapshots the arc when started, works against
// the snapshot, and publishes its result only if no newer pass has started
// in the meantime.
type InsightService struct {
	blocks     *BlockService
	structures *StructureService
	notify     *NotifyService
	metrics    *utils.EngineMetrics
	delay      time.Duration

	mu         sync.Mutex
	insights   []models.Insight
	running    bool
	generation uint64
}

func NewInsightService(blocks *BlockService, structures *StructureService, notify *NotifyService, delay time.Duration) *InsightService {
	return &InsightService{
		blocks:     blocks,
		structures: structures,
		notify:     notify,
		metrics:    utils.NewEngineMetrics(),
		delay:      delay,
	}
}

// Insights returns the most recently published insight list and whether a
// pass is in flight.
func (s *InsightService) Insights() ([]models.Insight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Insight(nil), s.insights...)
	return out, s.running
}

// Run starts an analysis pass against the current arc and returns
// immediately. A pass started later supersedes this one even if this one
// finishes first.
func (s *InsightService) Run() {
	snapshot := s.blocks.Snapshot()
	_, acts := s.structures.Current()
	gen := s.startPass()

	go func() {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		s.finishPass(gen, GenerateInsights(snapshot, acts))
	}()
}

func (s *InsightService) startPass() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.running = true
	return s.generation
}

// finishPass publishes a result unless a newer pass has started. Stale
// results are dropped whole.
func (s *InsightService) finishPass(gen uint64, insights []models.Insight) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.metrics.RecordAnalysisPass("insight", true)
		return false
	}
	s.insights = insights
	s.running = false
	s.mu.Unlock()
	s.metrics.RecordAnalysisPass("insight", false)

	if s.notify != nil {
		s.notify.Emit(NotifyInfo, fmt.Sprintf("Story analysis complete: %d insights", len(insights)), "")
	}
	return true
}

// arcShape is an arc snapshot digested into the aggregates the insight
// rules evaluate: act membership, per-act and total durations, and a count
// per content type.
type arcShape struct {
	blocks       []models.StoryBlock
	acts         []models.ActStructure
	blocksByAct  map[string][]models.StoryBlock
	actDurations map[string]float64
	total        float64
	typeCounts   map[models.BlockType]int
	imbalanced   bool
}

// insightRules run against the shape in order; the result list keeps that
// order. Each rule yields zero or more insights.
var insightRules = []func(*arcShape) []models.Insight{
	emptyActRule,
	actBalanceRule,
	balancedStructureRule,
	typeVarietyRule,
	interviewNudgeRule,
	brollNudgeRule,
}

// GenerateInsights evaluates the structural rule table against an arc
// snapshot. Rules run in a fixed order so the output list is deterministic.
func GenerateInsights(blocks []models.StoryBlock, acts []models.ActStructure) []models.Insight {
	shape := buildArcShape(blocks, acts)

	var insights []models.Insight
	for _, rule := range insightRules {
		insights = append(insights, rule(shape)...)
	}
	return insights
}

func buildArcShape(blocks []models.StoryBlock, acts []models.ActStructure) *arcShape {
	shape := &arcShape{
		blocks:       blocks,
		acts:         acts,
		blocksByAct:  make(map[string][]models.StoryBlock),
		actDurations: make(map[string]float64),
		typeCounts:   make(map[models.BlockType]int),
	}

	for i := range blocks {
		shape.total += blocks[i].Duration
		shape.typeCounts[blocks[i].Type]++

		act := ActFor(acts, blocks[i].Position)
		if act == nil {
			continue
		}
		shape.blocksByAct[act.Name] = append(shape.blocksByAct[act.Name], blocks[i])
	}

	for name, members := range shape.blocksByAct {
		var sum float64
		for i := range members {
			d := members[i].Duration
			if d == 0 {
				d = fallbackActDuration
			}
			sum += d
		}
		shape.actDurations[name] = sum
	}
	return shape
}

func emptyActRule(shape *arcShape) []models.Insight {
	var out []models.Insight
	for _, act := range shape.acts {
		if len(shape.blocksByAct[act.Name]) == 0 {
			out = append(out, models.Insight{
				Type:    models.InsightWarning,
				Message: fmt.Sprintf("The %s act is currently empty. Consider adding content to maintain narrative flow.", act.Name),
			})
		}
	}
	return out
}

// actBalanceRule compares each act's content against its expected share of
// total duration. It also marks the shape imbalanced for the rule behind it.
func actBalanceRule(shape *arcShape) []models.Insight {
	var out []models.Insight
	for _, act := range shape.acts {
		expected := shape.total * (act.End - act.Start) / 100
		actual := shape.actDurations[act.Name]

		if actual > 0 && actual < expected*shortActRatio {
			shape.imbalanced = true
			out = append(out, models.Insight{
				Type:    models.InsightInfo,
				Message: fmt.Sprintf("The %s act seems short relative to its importance. Consider expanding content here.", act.Name),
			})
		} else if actual > expected*overlongActRatio {
			shape.imbalanced = true
			out = append(out, models.Insight{
				Type:    models.InsightInfo,
				Message: fmt.Sprintf("The %s act is much longer than typical. Consider tightening content or moving some to adjacent acts.", act.Name),
			})
		}
	}
	return out
}

func balancedStructureRule(shape *arcShape) []models.Insight {
	if shape.imbalanced || len(shape.blocks) <= 2 {
		return nil
	}
	return []models.Insight{{
		Type:    models.InsightSuccess,
		Message: "Act structure is well-balanced! The content distribution across your story follows recommended patterns.",
	}}
}

func typeVarietyRule(shape *arcShape) []models.Insight {
	switch {
	case len(shape.typeCounts) <= 2 && len(shape.blocks) > 3:
		return []models.Insight{{
			Type:    models.InsightWarning,
			Message: "Consider adding more variety in content types. Using multiple formats keeps viewers engaged.",
		}}
	case len(shape.typeCounts) >= 4:
		return []models.Insight{{
			Type:    models.InsightSuccess,
			Message: "Good content variety! Using multiple formats creates a dynamic viewing experience.",
		}}
	}
	return nil
}

func interviewNudgeRule(shape *arcShape) []models.Insight {
	if shape.typeCounts[models.BlockInterview] > 0 || len(shape.blocks) <= 2 {
		return nil
	}
	return []models.Insight{{
		Type:    models.InsightInfo,
		Message: "Adding expert interviews could strengthen credibility and provide authoritative perspectives.",
	}}
}

func brollNudgeRule(shape *arcShape) []models.Insight {
	if shape.typeCounts[models.BlockBRoll] > 0 || len(shape.blocks) <= 2 {
		return nil
	}
	return []models.Insight{{
		Type:    models.InsightInfo,
		Message: "Consider adding B-roll footage to create visual interest and context for your narrative.",
	}}
}
