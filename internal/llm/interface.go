// internal/llm/interface.go
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// CompletionRequest is the provider-independent request for a text completion.
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
	TopP         float64
	ExtraParams  map[string]interface{}
}

// CompletionResponse is the provider-independent completion result.
type CompletionResponse struct {
	Text         string
	FinishReason string
	ModelUsed    string
	PromptTokens int
	OutputTokens int
}

// Provider is implemented by each AI backend. Implementations register
// themselves from an init function in their own package.
type Provider interface {
	// Initialize configures the provider from a flat string map
	// (api_key, default_model, base_url and so on).
	Initialize(config map[string]string) error

	// GetName returns a human-readable provider name.
	GetName() string

	// GetSupportedModels returns the models this provider can serve.
	GetSupportedModels() []string

	// CompleteText performs a single text completion.
	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// ProviderFactory creates an unconfigured provider instance.
type ProviderFactory func() Provider

var (
	providersMu sync.RWMutex
	providers   = make(map[string]ProviderFactory)
)

// Register makes a provider factory available under the given name.
// Called from provider package init functions.
func Register(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// GetProvider instantiates the named provider.
func GetProvider(name string) (Provider, error) {
	providersMu.RLock()
	factory, ok := providers[name]
	providersMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown AI provider: %s", name)
	}
	return factory(), nil
}

// ListProviders returns the registered provider names, sorted.
func ListProviders() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
