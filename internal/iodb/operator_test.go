package iodb_test

import (
	"context"
	"testing"

	"github.com/edugraph/skillmap/internal/iodb"
	"github.com/edugraph/skillmap/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL.
//
// Configuration is loaded from SKILLMAP_DATABASE_* environment
// variables on top of built-in defaults. The database name is
// always forced to "skillmap_test" for safety.
//
// Option 1: Use .envrc (recommended for local development):
//   export SKILLMAP_DATABASE_USER=your_user
//   export SKILLMAP_DATABASE_PASSWORD=your_password
//
// Option 2: Use Docker with default credentials:
//   docker run -d --name skillmap-test -e POSTGRES_PASSWORD=postgres -p 5432:5432 postgres:15
//
// Skip these tests in CI without a database using:
//   go test -short (these tests will be skipped)

func TestPgxOperator_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")

	defer op.Close()

	// Verify connection works by checking if we can query tables
	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err, "Should be able to execute commands after Connect")
	assert.False(t, exists)
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(ctx, cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxOperator_TableExists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	// Clean up any existing test table
	_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS test_table_exists CASCADE")

	// Table should not exist initially
	exists, err := op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.False(t, exists, "Table should not exist initially")

	// Create table
	_, err = op.Pool().Exec(ctx, "CREATE TABLE test_table_exists (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)

	// Table should now exist
	exists, err = op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.True(t, exists, "Table should exist after creation")

	// Clean up
	_, _ = op.Pool().Exec(ctx, "DROP TABLE test_table_exists")
}

func TestPgxOperator_DropAllTables(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	// Create some test tables
	_, _ = op.Pool().Exec(ctx, "CREATE TABLE IF NOT EXISTS drop_test1 (id SERIAL PRIMARY KEY)")
	_, _ = op.Pool().Exec(ctx, "CREATE TABLE IF NOT EXISTS drop_test2 (id SERIAL PRIMARY KEY)")

	// Drop all tables
	err = op.DropAllTables(ctx)
	require.NoError(t, err)

	// Verify tables are gone
	exists1, _ := op.TableExists(ctx, "drop_test1")
	exists2, _ := op.TableExists(ctx, "drop_test2")
	assert.False(t, exists1, "drop_test1 should be dropped")
	assert.False(t, exists2, "drop_test2 should be dropped")
}
