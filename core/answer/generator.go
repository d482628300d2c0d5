package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/siherrmann/docqa/model"
)

// Message is one chat message sent to the generative endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces an answer from a chat prompt. Implementations must
// bound the call with an explicit timeout.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// OpenAIChatClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIChatClient struct {
	url         string
	modelName   string
	apiKey      string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	client      *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIChatClient creates a chat client. The api key is optional; when
// set it is sent as a bearer token.
func NewOpenAIChatClient(url, modelName, apiKey string, maxTokens int, temperature float64, timeout time.Duration) *OpenAIChatClient {
	return &OpenAIChatClient{
		url:         url,
		modelName:   modelName,
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		client:      &http.Client{},
	}
}

// Generate sends the prompt to the chat endpoint and returns the model's
// message content. Every failure mode is a GenerationError.
func (c *OpenAIChatClient) Generate(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.modelName,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &model.GenerationError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &model.GenerationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &model.GenerationError{
				Err: fmt.Errorf("timed out after %v: %w", c.timeout, context.DeadlineExceeded),
			}
		}
		return "", &model.GenerationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &model.GenerationError{
			Err: fmt.Errorf("llm returned %d: %s", resp.StatusCode, detail),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &model.GenerationError{Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &model.GenerationError{Err: fmt.Errorf("llm response contains no choices")}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &model.GenerationError{Err: fmt.Errorf("llm response contains no message")}
	}

	return content, nil
}
