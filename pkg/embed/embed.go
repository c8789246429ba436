// Package embed defines the embedding engine contract. Engines turn
// text into dense vectors for semantic retrieval. Implementations
// live in internal/ioembed; this package stays free of I/O.
package embed

import "context"

// Engine generates vector embeddings for text.
type Engine interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector
	// per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of the vectors.
	Dimensions() int

	// Name identifies the engine and model, e.g. "genai:gemini-embedding-001".
	// Cache keys include the name so switching models never reuses
	// stale vectors.
	Name() string
}

// HealthChecker is an optional interface for engines that can verify
// their backing service is reachable. Callers check it before batch
// operations; a failing check degrades retrieval to lexical mode.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
