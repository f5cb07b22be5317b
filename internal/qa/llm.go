package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"qabot/internal/domain"
)

const extractPrompt = `You answer questions about Alzheimer's disease.
Reply with the shortest span copied verbatim from the context that answers the question.
If the context does not contain the answer, reply with the most relevant sentence of the context.`

// LLMConfig configures the OpenAI-compatible chat answerer.
type LLMConfig struct {
	BaseURL        string
	APIKeyEnv      string
	Model          string
	Timeout        time.Duration
	RequestsPerSec float64
}

// LLM asks an OpenAI-compatible chat completions endpoint to extract the answer.
type LLM struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewLLM(cfg LLMConfig) (*LLM, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		return nil, errors.New("llm answerer: model is required")
	}
	key := ""
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" && strings.Contains(cfg.BaseURL, "api.openai.com") {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 90 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	return &LLM{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     key,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Answer sends the context and question as one completion request.
func (c *LLM) Answer(ctx context.Context, question, passage string) (string, error) {
	if strings.TrimSpace(passage) == "" {
		return "", domain.ErrEmptyContext
	}
	answer, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: extractPrompt},
		{Role: "user", Content: "Context:\n" + passage + "\n\nQuestion: " + question},
	})
	if err != nil {
		return "", fmt.Errorf("llm answer: %w: %w", domain.ErrModelUnavailable, err)
	}
	return answer, nil
}

func (c *LLM) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	bodyBytes, err := json.Marshal(map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"stream":      false,
		"temperature": 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm response status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty llm choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty llm answer")
	}
	return content, nil
}
