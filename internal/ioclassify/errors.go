package ioclassify

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	msg := "Classification attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func NoSkillsError() error {
	msg := `No skills found in the database.
Run <em>skillmap import</em> first.`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ClassifyLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: skills table is empty", fn),
	}
}

func LoadError(err error) error {
	msg := "Cannot load skills for classification"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ClassifyLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot load skills: %w", fn, err),
	}
}

func SaveError(err error) error {
	msg := "Cannot save the equivalence relationship set"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ClassifySaveError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot save groups: %w", fn, err),
	}
}

func ExportError(path string, err error) error {
	msg := "Cannot export the relationship set to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ClassifySaveError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot export to %s: %w",
			fn, path, err),
	}
}
