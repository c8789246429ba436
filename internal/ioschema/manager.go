// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/edugraph/skillmap/pkg/db"
	"github.com/edugraph/skillmap/pkg/lifecycle"
	"github.com/edugraph/skillmap/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using
// GORM AutoMigrate. Also applies collation settings so
// normalized names sort bytewise regardless of locale.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	// Connect with GORM
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	// Run GORM AutoMigrate to create schema
	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	// Set collation for string columns
	// (critical for deterministic ordering)
	if err := m.setCollation(ctx); err != nil {
		return err
	}

	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	// Connect with GORM
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	// Run GORM AutoMigrate
	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	return nil
}

// setCollation sets "C" collation on specified varchar
// columns. Tie-breaks in classification and mapping rely on
// bytewise comparison of normalized names.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	type columnDef struct {
		table, column string
		varchar       int
	}

	columns := []columnDef{
		{"skills", "name_normalized", 500},
		{"taxonomy_nodes", "name", 255},
		{"taxonomy_nodes", "path", 1000},
	}

	qStr := `ALTER TABLE %s ALTER COLUMN %s ` +
		`TYPE VARCHAR(%d) COLLATE "C"`

	for _, col := range columns {
		q := formatCollationSQL(qStr, col.table,
			col.column, col.varchar)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}

	return nil
}
