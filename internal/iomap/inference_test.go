package iomap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(endpoint string) *InferenceClient {
	cfg := config.New().Mapping
	cfg.Endpoint = endpoint
	cfg.APIKey = "test-key"
	cfg.MinIntervalMs = 0
	cfg.TimeoutSec = 5
	return NewInferenceClient(&cfg)
}

// generateContentReply wraps a suggestion the way the wire format
// delivers it: JSON text inside the first candidate part.
func generateContentReply(t *testing.T, sug Suggestion) string {
	t.Helper()
	text, err := json.Marshal(sug)
	require.NoError(t, err)
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": string(text)}},
			}},
		},
	}
	body, err := json.Marshal(reply)
	require.NoError(t, err)
	return string(body)
}

func TestSuggestParsesStructuredReply(t *testing.T) {
	var gotPath string
	var gotBody genRequest

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &gotBody))
			fmt.Fprint(w, generateContentReply(t, Suggestion{
				BestPath:     "Mathematics > Numbers > Counting",
				Confidence:   "High",
				Rationale:    "exact topic match",
				Alternatives: []string{"Mathematics > Numbers > Place Value"},
			}))
		}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	sug, raw, err := c.Suggest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "Mathematics > Numbers > Counting", sug.BestPath)
	assert.Equal(t, "High", sug.Confidence)
	assert.Len(t, sug.Alternatives, 1)

	assert.Equal(t,
		"/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "application/json",
		gotBody.GenerationConfig.ResponseMimeType)
	assert.NotNil(t, gotBody.GenerationConfig.ResponseSchema)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "prompt", gotBody.Contents[0].Parts[0].Text)
}

func TestSuggestRetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, generateContentReply(t, Suggestion{
				BestPath:   "Literacy > Reading > Main Idea",
				Confidence: "Medium",
				Rationale:  "closest candidate",
			}))
		}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	sug, _, err := c.Suggest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Literacy > Reading > Main Idea", sug.BestPath)
}

func TestSuggestRetriesServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, generateContentReply(t, Suggestion{
				BestPath:   "Literacy > Reading > Main Idea",
				Confidence: "Low",
				Rationale:  "weak match",
			}))
		}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, _, err := c.Suggest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSuggestPermanentFailureIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"code":400,"message":"bad schema"}}`)
		}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, raw, err := c.Suggest(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, raw, "bad schema")
}

func TestSuggestPreservesRawOnParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			reply := map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{
						"parts": []map[string]any{
							{"text": "sorry, I cannot help with that"},
						},
					}},
				},
			}
			body, _ := json.Marshal(reply)
			w.Write(body)
		}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	sug, raw, err := c.Suggest(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Nil(t, sug)
	assert.Contains(t, raw, "sorry, I cannot help")
}

func TestSuggestRetriesExhausted(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		}))
	defer srv.Close()

	cfg := config.New().Mapping
	cfg.Endpoint = srv.URL
	cfg.MinIntervalMs = 0
	cfg.MaxRetries = 1
	cfg.TimeoutSec = 5
	c := NewInferenceClient(&cfg)

	_, _, err := c.Suggest(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestMinIntervalSpacesCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, generateContentReply(t, Suggestion{
				BestPath:   "Mathematics > Numbers > Counting",
				Confidence: "High",
				Rationale:  "match",
			}))
		}))
	defer srv.Close()

	cfg := config.New().Mapping
	cfg.Endpoint = srv.URL
	cfg.MinIntervalMs = 100
	cfg.TimeoutSec = 5
	c := NewInferenceClient(&cfg)

	start := time.Now()
	for range 2 {
		_, _, err := c.Suggest(context.Background(), "prompt")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t,
		time.Since(start), 100*time.Millisecond)
}

func TestParseSuggestionTruncatesAlternatives(t *testing.T) {
	text, err := json.Marshal(Suggestion{
		BestPath:     "A > B",
		Confidence:   "Medium",
		Rationale:    "r",
		Alternatives: []string{"A > C", "A > D", "A > E"},
	})
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": string(text)}},
			}},
		},
	})
	require.NoError(t, err)

	sug, err := parseSuggestion(body)
	require.NoError(t, err)
	assert.Len(t, sug.Alternatives, 2)
}
