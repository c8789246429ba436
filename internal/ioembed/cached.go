package ioembed

import (
	"context"

	"github.com/edugraph/skillmap/pkg/embed"
)

// cachedEngine decorates an engine with the persistent vector cache.
// Only cache misses reach the wrapped engine.
type cachedEngine struct {
	inner embed.Engine
	cache *Cache
}

// WithCache wraps an engine so its vectors are served from and stored
// into the given cache. The cache must be open.
func WithCache(inner embed.Engine, cache *Cache) embed.Engine {
	return &cachedEngine{inner: inner, cache: cache}
}

func (e *cachedEngine) Embed(
	ctx context.Context,
	text string,
) ([]float32, error) {
	if vec, err := e.cache.Get(e.inner.Name(), text); err != nil {
		return nil, err
	} else if vec != nil {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err = e.cache.Store(e.inner.Name(), text, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

func (e *cachedEngine) EmbedBatch(
	ctx context.Context,
	texts []string,
) ([][]float32, error) {
	res := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		vec, err := e.cache.Get(e.inner.Name(), text)
		if err != nil {
			return nil, err
		}
		if vec != nil {
			res[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return res, nil
	}

	vecs, err := e.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, vec := range vecs {
		res[missIdx[j]] = vec
		err = e.cache.Store(e.inner.Name(), missTexts[j], vec)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (e *cachedEngine) Dimensions() int {
	return e.inner.Dimensions()
}

func (e *cachedEngine) Name() string {
	return e.inner.Name()
}

// HealthCheck delegates to the wrapped engine when it supports
// health checking.
func (e *cachedEngine) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(embed.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
