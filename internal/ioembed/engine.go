// Package ioembed implements embedding engines and their persistent
// vector cache. The GenAI backend talks to Google's API through the
// official SDK; the Ollama backend talks to a local server over HTTP.
// Vectors are cached in BadgerDB so rebuilding a retrieval index after
// the first run costs no remote calls.
package ioembed

import (
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/embed"
)

// NewEngine builds the embedding engine selected by the configuration.
// Provider "none" returns a nil engine; callers treat that as the
// degraded lexical mode, not as an error.
func NewEngine(cfg *config.EmbedConfig) (embed.Engine, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "genai":
		return NewGenAIEngine(cfg.APIKey, cfg.Model)
	case "ollama":
		return NewOllamaEngine(cfg.Host, cfg.Model)
	default:
		return nil, UnknownProviderError(cfg.Provider)
	}
}
