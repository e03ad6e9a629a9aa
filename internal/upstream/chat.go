package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/triage-assistant/internal/common"
)

// ChatClient implements chat.Analyzer against `POST <base>/analyze`.
type ChatClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewChatClient(baseURL string, cfg HTTPClientConfig) *ChatClient {
	return &ChatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cfg.Client,
		circuit: newBreaker("chat", cfg),
	}
}

type analyzeRequest struct {
	Prompt string `json:"prompt"`
}

type analyzeResponse struct {
	Response *string `json:"response"`
}

// Analyze posts the assembled prompt and returns the model's reply.
func (c *ChatClient) Analyze(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(analyzeRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := doRequest(ctx, c.client, c.circuit, req)
	if err != nil {
		return "", err
	}

	var out analyzeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", common.Wrap(common.ErrDecode, err)
	}
	if out.Response == nil {
		return "", fmt.Errorf("%w: chat reply has no response field", common.ErrDecode)
	}
	return *out.Response, nil
}
