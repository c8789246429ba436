package ioembed

import (
	"context"
	"errors"
	"testing"

	"github.com/edugraph/skillmap/pkg/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Remote engines must be health-checkable so an unreachable backend
// degrades retrieval to lexical mode instead of failing the run.
var (
	_ embed.HealthChecker = (*genaiEngine)(nil)
	_ embed.HealthChecker = (*ollamaEngine)(nil)
	_ embed.HealthChecker = (*cachedEngine)(nil)
)

// downEngine always reports its backend as unreachable.
type downEngine struct {
	fakeEngine
}

func (e *downEngine) HealthCheck(_ context.Context) error {
	return errors.New("backend down")
}

func TestWithCache_HealthCheckDelegates(t *testing.T) {
	cache := openTestCache(t)

	engine := WithCache(&downEngine{}, cache)
	hc, ok := engine.(embed.HealthChecker)
	require.True(t, ok,
		"Cached engine should expose health checking")
	assert.Error(t, hc.HealthCheck(context.Background()),
		"Backend failure should surface through the cache wrapper")
}

func TestWithCache_HealthCheckWithoutChecker(t *testing.T) {
	cache := openTestCache(t)

	engine := WithCache(&fakeEngine{}, cache)
	hc, ok := engine.(embed.HealthChecker)
	require.True(t, ok)
	assert.NoError(t, hc.HealthCheck(context.Background()),
		"Engines without a health check count as healthy")
}
