package chatbot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/winwire/hr-onboarding-backend/internal/config"
)

// Provider identifies an external LLM backend
type Provider string

// Supported LLM providers. ProviderNone disables rephrasing entirely.
const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
	ProviderNone   Provider = "none"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	groqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
)

// rephraseSystemPrompt keeps the model on a tight leash: it may only restate
// the answer we already found, never invent new company facts.
const rephraseSystemPrompt = `You are a company information assistant.
Rephrase the provided answer into a friendly, concise reply to the employee's question.
Use ONLY the facts in the provided answer. Do not add information, do not speculate,
and do not mention internal systems or databases.`

// LLMClient calls an OpenAI-compatible chat completions API to rephrase
// chatbot answers. With provider "none" every call reports not configured.
type LLMClient struct {
	provider Provider
	apiKey   string
	model    string
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewLLMClient creates a new LLM client from chatbot configuration
func NewLLMClient(cfg config.ChatbotConfig, logger *logrus.Logger) *LLMClient {
	return &LLMClient{
		provider: Provider(cfg.LLMProvider),
		apiKey:   cfg.LLMAPIKey,
		model:    cfg.LLMModel,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// Enabled reports whether a provider is configured
func (c *LLMClient) Enabled() bool {
	return c.provider == ProviderOpenAI || c.provider == ProviderGroq
}

// Rephrase asks the model to restate an answer in response to the question
func (c *LLMClient) Rephrase(question, answer string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("LLM provider not configured")
	}

	prompt := fmt.Sprintf("Employee question: %s\n\nAnswer to rephrase:\n%s", question, answer)

	switch c.provider {
	case ProviderOpenAI:
		return c.callChatAPI(openAIEndpoint, prompt)
	case ProviderGroq:
		return c.callChatAPI(groqEndpoint, prompt)
	default:
		return "", fmt.Errorf("unknown provider: %s", c.provider)
	}
}

func (c *LLMClient) callChatAPI(endpoint, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": rephraseSystemPrompt,
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.3,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API error: %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("LLM error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty LLM response")
	}

	return result.Choices[0].Message.Content, nil
}
