package ioembed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ollamaEngine generates embeddings using a local Ollama server.
type ollamaEngine struct {
	host   string
	model  string
	client *http.Client
}

// NewOllamaEngine creates an Ollama embedding engine.
func NewOllamaEngine(host, model string) (*ollamaEngine, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "embeddinggemma"
	}

	return &ollamaEngine{
		host:  host,
		model: model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed generates an embedding for a single text.
func (e *ollamaEngine) Embed(
	ctx context.Context,
	text string,
) ([]float32, error) {
	req := ollamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, EngineError(e.Name(), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		e.host+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, EngineError(e.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, EngineError(e.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, EngineError(e.Name(), fmt.Errorf(
			"status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, EngineError(e.Name(), err)
	}
	return result.Embedding, nil
}

// EmbedBatch generates embeddings for multiple texts. Ollama has no
// native batch API, so texts are embedded sequentially.
func (e *ollamaEngine) EmbedBatch(
	ctx context.Context,
	texts []string,
) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of the vectors.
// embeddinggemma produces 768-dimensional vectors.
func (e *ollamaEngine) Dimensions() int {
	return 768
}

// Name returns the engine name used in cache keys.
func (e *ollamaEngine) Name() string {
	return fmt.Sprintf("ollama:%s", e.model)
}

// HealthCheck verifies the Ollama server is reachable. A failing
// check degrades retrieval to lexical mode.
func (e *ollamaEngine) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET",
		e.host+"/api/tags", nil)
	if err != nil {
		return EngineError(e.Name(), err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return EngineError(e.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return EngineError(e.Name(), fmt.Errorf(
			"status %d", resp.StatusCode))
	}
	return nil
}
