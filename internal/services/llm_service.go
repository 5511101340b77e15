// internal/services/llm_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/junglecut/storyarc/internal/errors"
	"github.com/junglecut/storyarc/internal/llm"
	"github.com/junglecut/storyarc/internal/models"
	"github.com/junglecut/storyarc/internal/utils"
)

// LLMService is a thin facade over the provider registry. It is always
// constructible: with no provider configured it reports not ready and every
// completion call fails fast, so the rest of the engine can treat AI
// assistance as strictly optional.
type LLMService struct {
	mu           sync.RWMutex
	provider     llm.Provider
	providerName string
	metrics      *utils.EngineMetrics
}

// NewLLMService instantiates the named provider. An empty name yields a
// not-ready service rather than an error.
func NewLLMService(providerName string, config map[string]string) (*LLMService, error) {
	s := &LLMService{metrics: utils.NewEngineMetrics()}
	if providerName == "" {
		return s, nil
	}
	if err := s.UpdateProvider(providerName, config); err != nil {
		return nil, err
	}
	return s, nil
}

// IsReady reports whether a provider is configured and initialized.
func (s *LLMService) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

// ProviderName returns the registry key of the active provider, or "".
func (s *LLMService) ProviderName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.providerName
}

// SupportedModels returns the active provider's model list.
func (s *LLMService) SupportedModels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.provider == nil {
		return nil
	}
	return s.provider.GetSupportedModels()
}

// UpdateProvider swaps the active provider at runtime.
func (s *LLMService) UpdateProvider(providerName string, config map[string]string) error {
	provider, err := llm.GetProvider(providerName)
	if err != nil {
		return errors.NewValidationError(err.Error(), nil)
	}
	if err := provider.Initialize(config); err != nil {
		return errors.NewValidationError("initialize AI provider", err)
	}

	s.mu.Lock()
	s.provider = provider
	s.providerName = providerName
	s.mu.Unlock()
	return nil
}

// Chat performs a free-form completion for the ideation chat panel.
func (s *LLMService) Chat(ctx context.Context, prompt string) (string, error) {
	s.mu.RLock()
	provider := s.provider
	providerName := s.providerName
	s.mu.RUnlock()

	if provider == nil {
		return "", errors.NewValidationError("no AI provider configured", nil)
	}

	start := time.Now()
	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		s.metrics.RecordError("llm")
		return "", errors.NewUpstreamError("AI completion failed", err)
	}
	s.metrics.RecordLLMRequest(providerName, resp.PromptTokens+resp.OutputTokens, time.Since(start))
	return resp.Text, nil
}

// SuggestSegments asks the provider to label each arc block with a segment
// of the given structure. The provider must answer with JSON; anything else
// is an upstream error and the caller falls back to the heuristic.
func (s *LLMService) SuggestSegments(ctx context.Context, blocks []models.StoryBlock, structure models.StructureType) (map[string]string, error) {
	s.mu.RLock()
	provider := s.provider
	providerName := s.providerName
	s.mu.RUnlock()

	if provider == nil {
		return nil, errors.NewValidationError("no AI provider configured", nil)
	}

	blockList, err := json.Marshal(blocks)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"These video content blocks are ordered on a %s story structure, with position as percent of total duration:\n%s\n"+
			"Assign each block a segment name from that structure.",
		structure, string(blockList))

	start := time.Now()
	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt: prompt,
		SystemPrompt: `You are a video story structure assistant. Respond with JSON only, in the shape ` +
			`{"suggestions":[{"block_id":"...","segment":"..."}]}.`,
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		s.metrics.RecordError("llm")
		return nil, errors.NewUpstreamError("AI suggestion request failed", err)
	}
	s.metrics.RecordLLMRequest(providerName, resp.PromptTokens+resp.OutputTokens, time.Since(start))

	suggestions, err := parseSuggestionResponse(extractJSON(resp.Text))
	if err != nil {
		return nil, errors.NewUpstreamError("AI suggestion response was not valid JSON", err)
	}
	return suggestions, nil
}

// AvailableProviders lists the provider names compiled into this build.
func AvailableProviders() []string {
	return llm.ListProviders()
}

// extractJSON trims surrounding prose or code fences from a model response.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
