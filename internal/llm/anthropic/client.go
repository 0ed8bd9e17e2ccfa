// Package anthropic implements the llm.Extractor interface against the
// Anthropic Messages API using forced tool use.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/llm"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4096
)

// Config holds the client settings. APIKey is required; the rest default
// to sensible values when zero.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the Anthropic Messages API. It satisfies llm.Extractor.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

// NewClient builds a Client from cfg, filling in defaults.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "anthropic").Logger(),
	}, nil
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Tools       []tool    `json:"tools"`
	Messages    []message `json:"messages"`
}

type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
	Text  string          `json:"text,omitempty"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends clinical text to the model and returns the structured
// coding result. Tool-call output is authoritative; a JSON text block is
// accepted as a fallback. Both paths are schema-validated before use.
func (c *Client) Extract(ctx context.Context, clinicalText string) (*llm.ExtractionResult, error) {
	reqBody := messagesRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: 0,
		System:      llm.SystemPrompt,
		Tools: []tool{{
			Name:        llm.ToolName,
			Description: llm.ToolDescription,
			InputSchema: llm.ExtractionSchema(),
		}},
		Messages: []message{{Role: "user", Content: llm.UserMessage(clinicalText)}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call messages api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("messages api %d (%s): %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("messages api returned status %d", resp.StatusCode)
	}

	var msg messagesResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug().
		Str("model", c.cfg.Model).
		Dur("elapsed", time.Since(start)).
		Int("blocks", len(msg.Content)).
		Msg("messages api call complete")

	for _, block := range msg.Content {
		if block.Type == "tool_use" && block.Name == llm.ToolName {
			return llm.ValidateExtraction(block.Input)
		}
	}

	// Fallback: the model may answer with a bare JSON text block.
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		if result, err := llm.ValidateExtraction(json.RawMessage(block.Text)); err == nil {
			return result, nil
		}
	}

	return nil, llm.ErrNoExtraction
}
