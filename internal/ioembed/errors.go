package ioembed

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
)

func UnknownProviderError(provider string) error {
	msg := `Unknown embedding provider <em>%s</em>.
Valid values are <em>none</em>, <em>genai</em> and <em>ollama</em>.`
	vars := []any{provider}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EmbedEngineError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unknown embed provider %q",
			fn, provider),
	}
}

func EngineError(engine string, err error) error {
	msg := "Embedding engine <em>%s</em> failed"
	vars := []any{engine}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EmbedEngineError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: engine %s: %w",
			fn, engine, err),
	}
}

func CacheError(err error) error {
	msg := "Embedding cache operation failed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EmbedCacheError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: embedding cache: %w", fn, err),
	}
}

func CacheNotOpenError() error {
	msg := "Embedding cache is not open"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EmbedCacheError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: embedding cache is not open", fn),
	}
}
