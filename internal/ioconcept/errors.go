package ioconcept

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	msg := "Concept generation attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func NoGroupsError() error {
	msg := `No state-variant groups found in the database.
Run <em>skillmap classify</em> first.`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConceptLoadError,
		Msg:  msg,
		Err: fmt.Errorf(
			"from %s: no state-variant equivalence groups", fn),
	}
}

func LoadError(err error) error {
	msg := "Cannot load equivalence groups for concept generation"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConceptLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot load groups: %w", fn, err),
	}
}

func SaveError(err error) error {
	msg := "Cannot save master concepts"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConceptSaveError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot save concepts: %w", fn, err),
	}
}

func ExportError(path string, err error) error {
	msg := "Cannot export concepts to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConceptExportError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot export to %s: %w",
			fn, path, err),
	}
}
