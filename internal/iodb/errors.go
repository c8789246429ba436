package iodb

import (
	"fmt"
	"runtime"

	"github.com/edugraph/skillmap/pkg/errcode"
	"github.com/gnames/gn"
)

func ConnectionError(
	host string, port int, database, user string, err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d</em>.
Check that the server is running (<em>pg_isready -h %s -p %d</em>),
that database <em>%s</em> exists, and that user <em>%s</em> has
access. Connection settings live in
<em>~/.config/skillmap/config.yaml</em>.`
	vars := []any{host, port, host, port, database, user}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s:%d/%s: %w",
			fn, host, port, database, err),
	}
}

func TableCheckError(err error) error {
	msg := "Cannot verify database state"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot check database tables: %w",
			fn, err),
	}
}

func EmptyDatabaseError(host, database string) error {
	msg := `Database <em>%s</em> on <em>%s</em> has no data.
Run <em>skillmap create</em> and <em>skillmap import</em> first.`
	vars := []any{database, host}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: database %s has no tables",
			fn, database),
	}
}

func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func TableExistsCheckError(tableName string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{tableName}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot check table %s: %w",
			fn, tableName, err),
	}
}

func QueryTablesError(err error) error {
	msg := "Cannot list database tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot query tables: %w",
			fn, err),
	}
}

func ScanTableError(err error) error {
	msg := "Cannot read table names"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot scan table name: %w",
			fn, err),
	}
}

func DropTableError(tableName string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{tableName}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot drop table %s: %w",
			fn, tableName, err),
	}
}
