package groq

import (
	"context"
	"fmt"
	"strings"

	"kiatsu-notification/api"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const GROQ_MODEL = "llama-3.3-70b-versatile"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GroqClient embeds the common HTTPClient and calls the chat-completions
// endpoint. A circuit breaker keeps a flapping generation service from
// delaying every notification run.
type GroqClient struct {
	*api.HTTPClient
	apiKey  string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewGroqClient creates a new instance of GroqClient.
func NewGroqClient(httpClient *api.HTTPClient, apiKey string, logger *zap.Logger) *GroqClient {
	settings := gobreaker.Settings{
		Name:        "groq",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &GroqClient{
		HTTPClient: httpClient,
		apiKey:     apiKey,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// Generate sends one chat-completion request and returns the generated
// text. Any failure (breaker open, HTTP error, empty choices) is returned
// to the caller, which is expected to fall back to canned advice.
func (c *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := chatCompletionRequest{
		Model:       GROQ_MODEL,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   500,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var response chatCompletionResponse
		if err := c.Request("POST", "/chat/completions", nil, headers, payload, &response); err != nil {
			return nil, err
		}
		if len(response.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}
		return strings.TrimSpace(response.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", fmt.Errorf("groq generation failed: %w", err)
	}

	return result.(string), nil
}
