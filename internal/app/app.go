// internal/app/app.go
package app

import (
	"fmt"
	"time"

	"github.com/junglecut/storyarc/internal/config"
	"github.com/junglecut/storyarc/internal/di"
	"github.com/junglecut/storyarc/internal/services"
	"github.com/junglecut/storyarc/internal/storage"

	// Register the AI providers.
	_ "github.com/junglecut/storyarc/internal/llm/providers/anthropic"
	_ "github.com/junglecut/storyarc/internal/llm/providers/gemini"
	_ "github.com/junglecut/storyarc/internal/llm/providers/openai"
	_ "github.com/junglecut/storyarc/internal/llm/providers/perplexity"
)

// Service names registered in the container.
const (
	ServiceStorage     = "storage"
	ServiceNotify      = "notify"
	ServiceBlocks      = "blocks"
	ServiceStructures  = "structures"
	ServiceTimeline    = "timeline"
	ServiceMetrics     = "metrics"
	ServiceLLM         = "llm"
	ServiceInsights    = "insights"
	ServiceSuggestions = "suggestions"
	ServiceDrag        = "drag"
	ServiceStats       = "stats"
)

// InitServices builds every service in dependency order and registers them
// in the container.
func InitServices(cfg *config.AppConfig) error {
	container := di.GetContainer()

	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	container.Register(ServiceStorage, fileStorage)

	notify := services.NewNotifyService()
	container.Register(ServiceNotify, notify)

	blocks, err := services.NewBlockService(fileStorage)
	if err != nil {
		return fmt.Errorf("init block store: %w", err)
	}
	container.Register(ServiceBlocks, blocks)

	structures, err := services.NewStructureService(fileStorage)
	if err != nil {
		return fmt.Errorf("init structures: %w", err)
	}
	container.Register(ServiceStructures, structures)

	container.Register(ServiceTimeline, services.NewTimelineService(blocks))
	container.Register(ServiceMetrics, services.NewMetricsService(blocks, structures))

	providerName := cfg.LLMProvider
	if cfg.LLMConfig["api_key"] == "" {
		// No key means the AI layer starts in not-ready mode.
		providerName = ""
	}
	llmService, err := services.NewLLMService(providerName, cfg.LLMConfig)
	if err != nil {
		return fmt.Errorf("init AI provider: %w", err)
	}
	container.Register(ServiceLLM, llmService)

	analysisDelay := time.Duration(cfg.AnalysisDelayMilliseconds()) * time.Millisecond
	container.Register(ServiceInsights,
		services.NewInsightService(blocks, structures, notify, analysisDelay))
	container.Register(ServiceSuggestions,
		services.NewSuggestionService(blocks, structures, notify, llmService, analysisDelay))

	hoverGap := time.Duration(cfg.HoverCommitGapMilliseconds()) * time.Millisecond
	container.Register(ServiceDrag, services.NewDragSession(blocks, notify, hoverGap))

	container.Register(ServiceStats, services.NewStatsService(fileStorage))

	return nil
}

// GetService fetches a typed service from the container.
func GetService[T any](name string) (T, error) {
	var zero T
	value := di.GetContainer().Get(name)
	if value == nil {
		return zero, fmt.Errorf("service not registered: %s", name)
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("service %s has unexpected type %T", name, value)
	}
	return typed, nil
}
