package iomap

import (
	"errors"
	"testing"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLostError(t *testing.T) {
	err := ServiceLostError(10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10 consecutive failures")

	var sl ServiceLost
	require.True(t, errors.As(err, &sl))
	assert.Contains(t, sl.Msg, "Inference Service Lost")
	assert.Equal(t, []any{10}, sl.Vars)
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"not connected", NotConnectedError(),
			errcode.DBNotConnectedError},
		{"no taxonomy", NoTaxonomyError(), errcode.MapLoadError},
		{"load", LoadError(assert.AnError), errcode.MapLoadError},
		{"save", SaveError(assert.AnError), errcode.MapSaveError},
		{"index", IndexError(assert.AnError), errcode.MapIndexError},
		{"inference", InferenceError(assert.AnError),
			errcode.MapInferenceError},
		{"checkpoint", CheckpointError("/tmp/x", assert.AnError),
			errcode.MapCheckpointError},
		{"review queue", ReviewQueueError("/tmp/x", assert.AnError),
			errcode.MapReviewQueueError},
	}
	for _, tt := range tests {
		var gnErr *gn.Error
		require.True(t, errors.As(tt.err, &gnErr), tt.msg)
		assert.Equal(t, tt.code, gnErr.Code, tt.msg)
	}
}
