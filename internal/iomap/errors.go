package iomap

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
)

func NotConnectedError() error {
	msg := "Mapping attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func NoTaxonomyError() error {
	msg := `No taxonomy found in the database.
Run <em>skillmap import</em> with a taxonomy file first.`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: taxonomy_nodes table is empty", fn),
	}
}

func LoadError(err error) error {
	msg := "Cannot load data for the mapping run"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot load mapping inputs: %w", fn, err),
	}
}

func SaveError(err error) error {
	msg := "Cannot save mapping records"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapSaveError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot insert mappings: %w", fn, err),
	}
}

func IndexError(err error) error {
	msg := "Cannot build or query the retrieval index"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapIndexError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: retrieval index: %w", fn, err),
	}
}

func InferenceError(err error) error {
	msg := "Inference call failed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapInferenceError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: inference: %w", fn, err),
	}
}

func CheckpointError(path string, err error) error {
	msg := "Cannot write checkpoint data to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapCheckpointError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write checkpoint %s: %w",
			fn, path, err),
	}
}

func ReviewQueueError(path string, err error) error {
	msg := "Cannot append to the review queue <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MapReviewQueueError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot append review queue %s: %w",
			fn, path, err),
	}
}

// ServiceLost is returned when consecutive mapping failures reach the
// configured limit and the batch halts with its last checkpoint
// intact.
type ServiceLost struct {
	error
	gnlib.MessageBase
}

// ServiceLostError creates the halt error for a dead inference
// service.
func ServiceLostError(streak int) error {
	msgBase := gnlib.MessageBase{
		Msg: `<title>Mapping Halted: Inference Service Lost</title>
<warn>%d skills in a row failed to map; the remote service looks unreachable.</warn>

All completed work is checkpointed. Re-running the command resumes
with the skills that have no mapping record yet.

<em>How to fix:</em>
  1. Check the inference endpoint and API key in config.yaml
  2. Check the service status and your quota
  3. Re-run: <em>skillmap map</em>
`,
		Vars: []any{streak},
	}

	return ServiceLost{
		error: fmt.Errorf(
			"mapping halted after %d consecutive failures", streak),
		MessageBase: msgBase,
	}
}
