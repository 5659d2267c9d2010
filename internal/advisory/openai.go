package advisory

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
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// ErrMalformedResponse means the completion endpoint answered 2xx but the
// body did not carry the expected completion field.
var ErrMalformedResponse = errors.New("malformed completion response")

// UpstreamError carries the status and body of a non-success completion
// response.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion endpoint returned status %d", e.Status)
}

// OpenAIKeyParam returns the SSM parameter holding the OpenAI API key.
func OpenAIKeyParam() string {
	if v := strings.TrimSpace(os.Getenv("OPENAI_KEY_PARAM")); v != "" {
		return v
	}
	return "/chatGpt/key"
}

// OpenAIBackend sends chat completions to the OpenAI API. One attempt per
// request, no retries.
type OpenAIBackend struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
}

func NewOpenAIBackend(apiKey string) *OpenAIBackend {
	base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if base == "" {
		base = defaultOpenAIURL
	}
	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIBackend{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    base,
		APIKey:     apiKey,
		Model:      model,
	}
}

func (o *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	payload := map[string]any{
		"model": o.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: missing choices[0].message.content", ErrMalformedResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}
