package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
)

const (
	defaultAPIBase = "https://api.openai.com"
)

// ChatHelper wraps OpenAI-compatible Chat Completions API calls.
type ChatHelper struct {
	apiBase    string
	httpClient *http.Client
}

// ChatMessage is one message of a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest describes one chat completion generation request.
type ChatRequest struct {
	Model    string
	Messages []ChatMessage
}

// NewChatHelper creates a Chat Completions helper with safe defaults.
func NewChatHelper(apiBase string, timeout time.Duration, httpClient *http.Client) *ChatHelper {
	trimmedBase := strings.TrimSpace(apiBase)
	if trimmedBase == "" {
		trimmedBase = defaultAPIBase
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &ChatHelper{
		apiBase:    strings.TrimRight(trimmedBase, "/"),
		httpClient: httpClient,
	}
}

// CreateCompletion sends a chat completion request and returns the first choice's content.
func (h *ChatHelper) CreateCompletion(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	if h == nil {
		return "", errors.New("chat helper is nil")
	}
	if strings.TrimSpace(apiKey) == "" {
		return "", errors.New("missing api key")
	}
	if strings.TrimSpace(req.Model) == "" {
		return "", errors.New("missing model")
	}
	if len(req.Messages) == 0 {
		return "", errors.New("missing messages")
	}

	payload := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.apiBase+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "call chat endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("chat endpoint status %d", resp.StatusCode)
	}

	var decoded chatCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "decode chat response")
	}

	if len(decoded.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat response content is empty")
	}

	return content, nil
}

type chatCreateResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message ChatMessage `json:"message"`
}
