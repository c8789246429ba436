package iovalidate

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	msg := "Validation attempted without database connection"
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
		Code: errcode.ValidateLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: taxonomy_nodes table is empty", fn),
	}
}

func LoadError(err error) error {
	msg := "Cannot load data for validation"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ValidateLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot load taxonomy: %w", fn, err),
	}
}

func ReportError(path string, err error) error {
	msg := "Cannot write the validation report to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ValidateReportError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write report %s: %w",
			fn, path, err),
	}
}
