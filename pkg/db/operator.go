// Package db defines the database operator contract. It provides
// connection lifecycle management and exposes the pgxpool.Pool for
// pipeline components to execute their specialized SQL internally.
//
// Design rationale:
//   - Keeps the interface minimal to avoid bloat with mixed semantics
//   - Pool() enables components to use performance-critical features
//     (batched inserts, transactions)
//   - Schema creation and migration are handled by GORM AutoMigrate
//     via the schema manager
package db

import (
	"context"

	"github.com/edugraph/skillmap/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines basic database management operations.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for components to
	// execute specialized SQL: transactions, batched inserts and
	// custom queries.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public
	// schema. Used to decide whether schema creation should prompt
	// for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	// Used during schema initialization when overwriting existing
	// data.
	DropAllTables(ctx context.Context) error
}
