package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/envutil"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
)

// Client is one call/response cycle with the Gemini text-generation API.
// The pipeline treats it as an opaque completion function: prompt text in,
// free-form reply text out. No retries; a failed call fails the request.
type Client interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, timeout time.Duration) (Client, error) {
	apiKey := envutil.String("GEMINI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	baseURL := envutil.String("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &client{
		log:        log.With("service", "GeminiClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *client) Complete(ctx context.Context, model, prompt string) (string, error) {
	body := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", apperr.ErrGeneration, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", apperr.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Gemini request failed", "model", model, "error", err)
		return "", fmt.Errorf("%w: %v", apperr.ErrGeneration, err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", fmt.Errorf("%w: read response: %v", apperr.ErrGeneration, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		hErr := &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
		c.log.Warn("Gemini request rejected", "model", model, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %v", apperr.ErrGeneration, hErr)
	}

	var out generateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", apperr.ErrGeneration, err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", apperr.ErrGeneration)
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()
	if text == "" {
		return "", fmt.Errorf("%w: empty completion text", apperr.ErrGeneration)
	}
	return text, nil
}
