package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junglecut/storyarc/internal/llm"
	"github.com/junglecut/storyarc/internal/utils"
)

// stubProvider answers every completion with a canned response or error.
type stubProvider struct {
	resp *llm.CompletionResponse
	err  error
}

func (p *stubProvider) Initialize(map[string]string) error { return nil }
func (p *stubProvider) GetName() string                    { return "Stub" }
func (p *stubProvider) GetSupportedModels() []string       { return []string{"stub-1"} }
func (p *stubProvider) CompleteText(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return p.resp, p.err
}

func newStubLLMService(t *testing.T, provider llm.Provider) *LLMService {
	t.Helper()
	svc, err := NewLLMService("", nil)
	require.NoError(t, err)
	svc.provider = provider
	svc.providerName = "stub"
	return svc
}

func TestChatRecordsUsage(t *testing.T) {
	svc := newStubLLMService(t, &stubProvider{resp: &llm.CompletionResponse{
		Text:         "hello",
		PromptTokens: 12,
		OutputTokens: 30,
	}})

	collector := utils.GetMetricsCollector()
	requestsBefore := collector.GetCounterValue("llm_requests_stub")
	tokensBefore := collector.GetCounterValue("llm_tokens_stub")

	text, err := svc.Chat(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	assert.Equal(t, requestsBefore+1, collector.GetCounterValue("llm_requests_stub"))
	assert.Equal(t, tokensBefore+42, collector.GetCounterValue("llm_tokens_stub"))
}

func TestChatFailureRecordsError(t *testing.T) {
	svc := newStubLLMService(t, &stubProvider{err: errors.New("boom")})

	collector := utils.GetMetricsCollector()
	errorsBefore := collector.GetCounterValue("errors_llm")
	requestsBefore := collector.GetCounterValue("llm_requests_stub")

	_, err := svc.Chat(context.Background(), "say hello")
	require.Error(t, err)

	assert.Equal(t, errorsBefore+1, collector.GetCounterValue("errors_llm"))
	assert.Equal(t, requestsBefore, collector.GetCounterValue("llm_requests_stub"),
		"a failed call is not a served request")
}

func TestSuggestSegmentsRecordsUsage(t *testing.T) {
	svc := newStubLLMService(t, &stubProvider{resp: &llm.CompletionResponse{
		Text:         `{"suggestions":[{"block_id":"b1","segment":"Setup"}]}`,
		PromptTokens: 20,
		OutputTokens: 10,
	}})

	collector := utils.GetMetricsCollector()
	requestsBefore := collector.GetCounterValue("llm_requests_stub")
	tokensBefore := collector.GetCounterValue("llm_tokens_stub")

	suggestions, err := svc.SuggestSegments(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b1": "Setup"}, suggestions)

	assert.Equal(t, requestsBefore+1, collector.GetCounterValue("llm_requests_stub"))
	assert.Equal(t, tokensBefore+30, collector.GetCounterValue("llm_tokens_stub"))
}

func TestChatWithoutProviderFailsFast(t *testing.T) {
	svc, err := NewLLMService("", nil)
	require.NoError(t, err)
	assert.False(t, svc.IsReady())

	_, err = svc.Chat(context.Background(), "hello")
	assert.Error(t, err)
}
