package iomap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/edugraph/skillmap/pkg/config"
)

// maxBackoff caps the exponential retry delay.
const maxBackoff = 8 * time.Second

// Suggestion is the structured reply of one inference call.
type Suggestion struct {
	BestPath     string   `json:"bestPath"`
	Confidence   string   `json:"confidence"`
	Rationale    string   `json:"rationale"`
	Alternatives []string `json:"alternatives"`
}

// InferenceClient is a hand-rolled HTTP client for the Gemini
// generateContent wire shape. It forces the reply into the Suggestion
// schema via responseMimeType/responseSchema, rate-limits itself with
// a minimum inter-call interval shared by all workers, and retries
// transient failures (HTTP 429, 5xx, timeouts) with exponential
// backoff.
type InferenceClient struct {
	endpoint    string
	apiKey      string
	model       string
	maxRetries  int
	minInterval time.Duration
	timeout     time.Duration
	httpClient  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewInferenceClient creates a client for the configured inference
// endpoint.
func NewInferenceClient(cfg *config.MappingConfig) *InferenceClient {
	return &InferenceClient{
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxRetries:  cfg.MaxRetries,
		minInterval: time.Duration(cfg.MinIntervalMs) * time.Millisecond,
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		httpClient:  &http.Client{},
	}
}

type genPart struct {
	Text string `json:"text"`
}

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genConfig struct {
	Temperature      float64        `json:"temperature"`
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type genRequest struct {
	Contents         []genContent `json:"contents"`
	GenerationConfig genConfig    `json:"generationConfig"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []genPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// suggestionSchema constrains the model output to the Suggestion
// shape: a best path, a three-valued confidence, a rationale and at
// most two alternatives.
func suggestionSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"bestPath": map[string]any{"type": "STRING"},
			"confidence": map[string]any{
				"type": "STRING",
				"enum": []string{"High", "Medium", "Low"},
			},
			"rationale": map[string]any{"type": "STRING"},
			"alternatives": map[string]any{
				"type":     "ARRAY",
				"items":    map[string]any{"type": "STRING"},
				"maxItems": 2,
			},
		},
		"required": []string{"bestPath", "confidence", "rationale"},
	}
}

// Suggest sends one prompt to the inference service and parses the
// structured reply. The raw response body is returned alongside, so
// callers can preserve it when parsing fails. When the caller's
// context carries no deadline, the configured per-call timeout is
// applied.
func (c *InferenceClient) Suggest(
	ctx context.Context,
	prompt string,
) (*Suggestion, string, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.wait()

	reqBody := genRequest{
		Contents: []genContent{
			{Role: "user", Parts: []genPart{{Text: prompt}}},
		},
		GenerationConfig: genConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
			ResponseSchema:   suggestionSchema(),
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", InferenceError(err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent",
		c.endpoint, c.model)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return nil, "", InferenceError(ctx.Err())
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, "", InferenceError(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-goog-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", InferenceError(ctx.Err())
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		raw := string(body)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("inference status %d: %s",
				resp.StatusCode, raw)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, raw, InferenceError(fmt.Errorf(
				"inference status %d: %s", resp.StatusCode, raw))
		}

		sug, err := parseSuggestion(body)
		if err != nil {
			return nil, raw, InferenceError(err)
		}
		return sug, raw, nil
	}

	return nil, "", InferenceError(fmt.Errorf(
		"retries exhausted: %w", lastErr))
}

// parseSuggestion extracts the Suggestion from a generateContent
// response body.
func parseSuggestion(body []byte) (*Suggestion, error) {
	var resp genResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("cannot parse response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("inference error %d: %s",
			resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty inference response")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	var sug Suggestion
	if err := json.Unmarshal([]byte(sb.String()), &sug); err != nil {
		return nil, fmt.Errorf("cannot parse suggestion: %w", err)
	}
	if sug.BestPath == "" {
		return nil, fmt.Errorf("suggestion without bestPath")
	}
	if len(sug.Alternatives) > 2 {
		sug.Alternatives = sug.Alternatives[:2]
	}
	return &sug, nil
}

// wait enforces the minimum interval between two inference calls.
func (c *InferenceClient) wait() {
	if c.minInterval <= 0 {
		return
	}
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.minInterval {
		time.Sleep(c.minInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
}
