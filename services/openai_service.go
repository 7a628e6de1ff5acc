package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Message is one role-tagged turn sent to the chat completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatCompleter is the slice of the completion API the estimation pipeline
// needs. The API is treated as unreliable; callers degrade on any error.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

type OpenAIService struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewOpenAIService initializes the client from the environment. BaseURL is
// overridable so any OpenAI-compatible endpoint works.
func NewOpenAIService() *OpenAIService {
	base := os.Getenv("OPENAI_BASE_URL")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAIService{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		model:   model,
		baseURL: base,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request and returns the assistant text.
// Single attempt, no retries.
func (s *OpenAIService) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: temperature,
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat api error %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("failed to parse chat JSON: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat api returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}
