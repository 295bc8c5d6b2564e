package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lexa-ai/lexa-backend/internal/logger"
)

const (
	DefaultAddr  = "https://generativelanguage.googleapis.com"
	DefaultModel = "gemini-2.0-flash"

	requestTimeout = 30 * time.Second
)

type Client struct {
	addr   string
	apiKey string
	model  string

	client *http.Client
	logger logger.Logger
}

func NewClient(addr string, apiKey string, model string, l logger.Logger) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	if model == "" {
		model = DefaultModel
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &Client{
		addr:   addr,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
		logger: l,
	}
}

// Wire format of the generateContent endpoint
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the prompt to the model and returns its text reply
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.addr, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Model request failed", "status_code", resp.StatusCode, "model", c.model, "body", string(detail))
		return "", fmt.Errorf("unexpected status code %d from model", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		c.logger.Warn("Failed to decode model response", "error", err)
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}
