// internal/services/suggestion_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/utils"
)

// SuggestionService produces advisory segment labels for arc blocks. Like
// insight analysis it runs as a superseding async pass: the result of an
// older pass is discarded whole if a newer one has started. Suggestions are
// applied wholesale and never change block order or act classification.
type SuggestionService struct {
	blocks     *BlockService
	structures *StructureService
	notify     *NotifyService
	llm        *LLMService
	delay      time.Duration
	metrics    *utils.EngineMetrics

	mu         sync.Mutex
	generating bool
	generation uint64
}

func NewSuggestionService(blocks *BlockService, structures *StructureService, notify *NotifyService, llm *LLMService, delay time.Duration) *SuggestionService {
	return &SuggestionService{
		blocks:     blocks,
		structures: structures,
		notify:     notify,
		llm:        llm,
		delay:      delay,
		metrics:    utils.NewEngineMetrics(),
	}
}

// Generating reports whether a pass is in flight.
func (s *SuggestionService) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Run starts a suggestion pass against the current arc and returns
// immediately. When an AI provider is configured the pass asks it for
// labels and falls back to the built-in heuristic on any failure;
// otherwise the heuristic is used directly.
func (s *SuggestionService) Run(ctx context.Context) {
	snapshot := s.blocks.Snapshot()
	structure, _ := s.structures.Current()
	gen := s.startPass()

	go func() {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}

		suggestions, usedAI := s.generate(ctx, snapshot, structure)
		if !s.finishPass(gen, suggestions) {
			return
		}

		detail := "Based on " + structureLabel(structure) + " structure analysis"
		if usedAI {
			detail += " (AI assisted)"
		}
		s.notify.Emit(NotifySuccess,
			fmt.Sprintf("Generated AI suggestions for %d blocks", len(snapshot)), detail)
	}()
}

func (s *SuggestionService) generate(ctx context.Context, snapshot []models.StoryBlock, structure models.StructureType) (map[string]string, bool) {
	if s.llm != nil && s.llm.IsReady() {
		suggestions, err := s.llm.SuggestSegments(ctx, snapshot, structure)
		if err == nil && len(suggestions) > 0 {
			return suggestions, true
		}
		if err != nil {
			s.notify.Emit(NotifyWarning, "AI suggestion request failed, using built-in analysis", err.Error())
		}
	}

	suggestions := make(map[string]string, len(snapshot))
	for i := range snapshot {
		suggestions[snapshot[i].ID] = SuggestSegment(snapshot[i].Type, snapshot[i].Position, structure)
	}
	return suggestions, false
}

func (s *SuggestionService) startPass() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.generating = true
	return s.generation
}

// finishPass applies a result unless a newer pass has started.
func (s *SuggestionService) finishPass(gen uint64, suggestions map[string]string) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.metrics.RecordAnalysisPass("suggestion", true)
		return false
	}
	s.generating = false
	s.mu.Unlock()
	s.metrics.RecordAnalysisPass("suggestion", false)

	if _, err := s.blocks.ApplySuggestions(suggestions); err != nil {
		s.notify.Emit(NotifyError, "Failed to apply segment suggestions", err.Error())
		return false
	}
	return true
}

// SuggestSegment maps a block's type and timeline position to a segment
// label. The Aristotelian template gets type-aware placement; every other
// template falls back to simple three-act thirds.
func SuggestSegment(blockType models.BlockType, position float64, structure models.StructureType) string {
	if structure == models.StructureAristotelian {
		switch {
		case blockType == models.BlockInterview && position < 20:
			return "Setup"
		case blockType == models.BlockDemo && position > 20 && position < 40:
			return "Inciting Incident"
		case blockType == models.BlockBRoll && position > 40 && position < 60:
			return "Rising Action"
		case position > 60 && position < 80:
			return "Crisis"
		case position > 80:
			return "Resolution"
		default:
			return "Rising Action"
		}
	}

	switch {
	case position < 25:
		return "Setup"
	case position < 75:
		return "Confrontation"
	default:
		return "Resolution"
	}
}

func structureLabel(structure models.StructureType) string {
	if structure == models.StructureAristotelian {
		return "Aristotelian"
	}
	return "3-act"
}

// segmentSuggestionPayload is the JSON shape requested from the AI provider.
type segmentSuggestionPayload struct {
	Suggestions []struct {
		BlockID string `json:"block_id"`
		Segment string `json:"segment"`
	} `json:"suggestions"`
}

func parseSuggestionResponse(raw string) (map[string]string, error) {
	var payload segmentSuggestionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(payload.Suggestions))
	for _, sug := range payload.Suggestions {
		if sug.BlockID != "" && sug.Segment != "" {
			out[sug.BlockID] = sug.Segment
		}
	}
	return out, nil
}
