package ioembed

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// genaiEngine generates embeddings using Google's Gemini API.
type genaiEngine struct {
	client *genai.Client
	model  string
}

// NewGenAIEngine creates a GenAI embedding engine.
func NewGenAIEngine(apiKey, model string) (*genaiEngine, error) {
	if apiKey == "" {
		return nil, EngineError("genai",
			fmt.Errorf("API key is required"))
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, EngineError("genai", err)
	}

	return &genaiEngine{client: client, model: model}, nil
}

// Embed generates an embedding for a single text.
func (e *genaiEngine) Embed(
	ctx context.Context,
	text string,
) ([]float32, error) {
	res, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// HealthCheck verifies the Gemini API is reachable and the key is
// accepted by embedding one short text. A failing check degrades
// retrieval to lexical mode.
func (e *genaiEngine) HealthCheck(ctx context.Context) error {
	_, err := e.Embed(ctx, "readiness check")
	return err
}

// EmbedBatch generates embeddings for multiple texts. GenAI has
// native batch support.
func (e *genaiEngine) EmbedBatch(
	ctx context.Context,
	texts []string,
) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx,
		e.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: "SEMANTIC_SIMILARITY",
		},
	)
	if err != nil {
		return nil, EngineError(e.Name(), err)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, EngineError(e.Name(), fmt.Errorf(
			"expected %d embeddings, got %d",
			len(texts), len(result.Embeddings)))
	}

	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of the vectors.
// gemini-embedding-001 produces 768-dimensional vectors.
func (e *genaiEngine) Dimensions() int {
	return 768
}

// Name returns the engine name used in cache keys.
func (e *genaiEngine) Name() string {
	return fmt.Sprintf("genai:%s", e.model)
}
