// internal/llm/providers/anthropic/anthropic.go
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/junglecut/storyarc/internal/llm"
)

func init() {
	llm.Register("anthropic", func() llm.Provider {
		return &Provider{
			recommendedModels: []string{
				"claude-3-5-sonnet-latest",
				"claude-3-5-haiku-latest",
				"claude-3-opus-latest",
			},
			baseURL:    "https://api.anthropic.com",
			apiVersion: "2023-06-01",
		}
	})
}

type Provider struct {
	apiKey            string
	baseURL           string
	apiVersion        string
	client            *http.Client
	defaultModel      string
	recommendedModels []string
	availableModels   []string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return errors.New("anthropic api key not provided")
	}

	p.apiKey = apiKey
	p.client = &http.Client{}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = "claude-3-5-sonnet-latest"
	}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	if apiVersion, exists := config["api_version"]; exists && apiVersion != "" {
		p.apiVersion = apiVersion
	}

	if customModels, exists := config["custom_models"]; exists && customModels != "" {
		var models []string
		if err := json.Unmarshal([]byte(customModels), &models); err == nil && len(models) > 0 {
			p.availableModels = models
		}
	}

	return nil
}

func (p *Provider) GetName() string {
	return "Anthropic Claude"
}

func (p *Provider) GetSupportedModels() []string {
	if len(p.availableModels) > 0 {
		return p.availableModels
	}
	return p.recommendedModels
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	messages := []map[string]interface{}{
		{"role": "user", "content": req.Prompt},
	}

	requestBody := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}

	if req.SystemPrompt != "" {
		requestBody["system"] = req.SystemPrompt
	}

	if req.TopP > 0 {
		requestBody["top_p"] = req.TopP
	}

	for k, v := range req.ExtraParams {
		requestBody[k] = v
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"POST",
		p.baseURL+"/v1/messages",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", p.apiKey)
	httpReq.Header.Set("Anthropic-Version", p.apiVersion)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("anthropic api error (%d): %s", httpResp.StatusCode, string(body))
	}

	var response struct {
		ID         string `json:"id"`
		Model      string `json:"model"`
		StopReason string `json:"stop_reason"`
		Content    []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return nil, err
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &llm.CompletionResponse{
		Text:         text,
		FinishReason: response.StopReason,
		ModelUsed:    response.Model,
		PromptTokens: response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}
