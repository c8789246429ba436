package ioingest

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	msg := "Import attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func MissingInputError(what string) error {
	msg := "No <em>%s</em> given, use the corresponding flag"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s not provided", fn, what),
	}
}

func OpenInputError(path string, err error) error {
	msg := "Cannot open input file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn, path, err),
	}
}

func ParseInputError(path string, line int, err error) error {
	msg := "Cannot parse input file <em>%s</em> (line %d)"
	vars := []any{path, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot parse %s line %d: %w",
			fn, path, line, err),
	}
}

func EmptyInputError(what string) error {
	msg := "Input <em>%s</em> has no records"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s is empty", fn, what),
	}
}

func ValidationError(line int, detail string) error {
	msg := "Invalid input at record %d: <em>%s</em>"
	vars := []any{line, detail}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: record %d: %s",
			fn, line, detail),
	}
}

func InsertError(table string, err error) error {
	msg := "Cannot insert records into <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestInsertError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: insert into %s failed: %w",
			fn, table, err),
	}
}
