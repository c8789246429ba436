// Package lifecycle defines the pure contracts of the pipeline
// phases. Implementations live in internal/io* packages; commands
// hold values of these interfaces only.
package lifecycle

import (
	"context"

	"github.com/edugraph/skillmap/pkg/config"
)

// SchemaManager creates and migrates the database schema.
type SchemaManager interface {
	// Create creates the initial database schema.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context, cfg *config.Config) error
}

// Ingestor imports the skill inventory, the reference taxonomy and
// optional enrichment metadata, validating inputs before any write.
type Ingestor interface {
	Import(ctx context.Context) error
}

// Classifier partitions the imported skill corpus into equivalence
// relationships, replacing the previous relationship set wholesale.
type Classifier interface {
	Classify(ctx context.Context) error
}

// Mapper runs the batch taxonomy mapping over all unmapped skills.
type Mapper interface {
	Map(ctx context.Context) error
}

// Aggregator regenerates master concepts and the skill-to-concept
// bridge from classifier output and mappings.
type Aggregator interface {
	Aggregate(ctx context.Context) error
}

// Validator walks the taxonomy tree and reports duplicate names and
// structural coverage anomalies.
type Validator interface {
	Validate(ctx context.Context) error
}
