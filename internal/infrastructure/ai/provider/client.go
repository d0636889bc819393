// Package provider implements the chat-completions HTTP client for the
// external completion provider.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/ports/outbound"
)

// Client calls a /chat/completions-shaped endpoint. It holds no
// credential of its own; the gateway supplies one per call from the
// rotation pool.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new completion provider client.
// The http.Client carries no timeout; the gateway bounds each attempt
// through the request context.
func NewClient(baseURL, model string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
		logger:  logger.Named("provider"),
	}
}

// Chat completions wire structures
type chatCompletionRequest struct {
	Model       string                 `json:"model"`
	Messages    []outbound.ChatMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      outbound.ChatMessage `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete sends the prompt with the given bearer credential and returns
// the first choice's content.
func (c *Client) Complete(ctx context.Context, prompt outbound.Prompt, credential string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    prompt.Messages,
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", NewError(KindUnknown, 0, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", NewError(KindUnknown, 0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.client.Do(req)
	if err != nil {
		// Network failures and deadline expiry are both transient.
		kind := KindTransient
		if errors.Is(err, context.Canceled) {
			kind = KindUnknown
		}
		return "", NewError(kind, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewError(KindTransient, resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		kind := KindForStatus(resp.StatusCode)
		c.logger.Warn("Completion request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("kind", string(kind)),
		)
		return "", NewError(kind, resp.StatusCode, truncate(string(body), 256), nil)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", NewError(KindUnknown, resp.StatusCode, "failed to unmarshal response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", NewError(KindUnknown, resp.StatusCode, "no response choices returned", nil)
	}

	c.logger.Debug("Completion request successful",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}
