// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/edugraph/skillmap/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "skillmap_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It starts from built-in defaults, applies SKILLMAP_DATABASE_* environment
// variables, and overrides the database name to TestDatabaseName for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	var opts []config.Option

	if host := os.Getenv("SKILLMAP_DATABASE_HOST"); host != "" {
		opts = append(opts, config.OptDatabaseHost(host))
	}
	if port := os.Getenv("SKILLMAP_DATABASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			opts = append(opts, config.OptDatabasePort(p))
		}
	}
	if user := os.Getenv("SKILLMAP_DATABASE_USER"); user != "" {
		opts = append(opts, config.OptDatabaseUser(user))
	}
	if pass := os.Getenv("SKILLMAP_DATABASE_PASSWORD"); pass != "" {
		opts = append(opts, config.OptDatabasePassword(pass))
	}

	cfg := config.New()
	cfg.Update(opts)

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
// This is useful when you only need database config without the full Config
// struct.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}
