// Package config provides configuration management for skillmap.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Classify: state_variant_min, progression_min, progression_max,
//     max_pairwise, window, universal_authorities
//   - Mapping: top_k, checkpoint_size, review_similarity, cost_per_call,
//     max_retries, max_fail_streak, endpoint, api_key, model,
//     min_interval_ms, timeout_sec, output_dir
//   - Embed: provider, model, api_key, host
//   - Validate: near_dup_min
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Ingest.SkillsFile, TaxonomyFile, MetadataFile (per-command)
//   - Classify.ExportFile, Mapping.Limit (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use SKILLMAP_ prefix with underscores for nesting:
//
//	SKILLMAP_DATABASE_HOST=localhost
//	SKILLMAP_DATABASE_PORT=5432
//	SKILLMAP_MAPPING_API_KEY=...
//	SKILLMAP_LOG_LEVEL=info
//	SKILLMAP_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete skillmap configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Ingest contains settings specific to the import command.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	// Classify contains similarity thresholds for the variant classifier.
	Classify ClassifyConfig `mapstructure:"classify" yaml:"classify"`

	// Mapping contains settings for taxonomy mapping and its batch runs.
	Mapping MappingConfig `mapstructure:"mapping" yaml:"mapping"`

	// Embed contains embedding engine settings.
	Embed EmbedConfig `mapstructure:"embed" yaml:"embed"`

	// Validate contains settings for the taxonomy validator.
	Validate ValidateConfig `mapstructure:"validate" yaml:"validate"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records per batch for bulk inserts.
	// Used by import, classify, map and concepts phases. Larger batches are
	// faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// IngestConfig contains settings specific to the import command.
// All fields are runtime-only, provided via CLI flags.
type IngestConfig struct {
	// SkillsFile is the path to the skill inventory, either a CSV file
	// or a SQLite snapshot (recognized by .sqlite/.db extension).
	SkillsFile string `mapstructure:"skills_file" yaml:"skills_file"`

	// TaxonomyFile is the path to the reference taxonomy, either a CSV
	// file with one leaf row per line or a nested YAML tree.
	TaxonomyFile string `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`

	// MetadataFile is an optional CSV with per-skill enrichment fields.
	MetadataFile string `mapstructure:"metadata_file" yaml:"metadata_file"`
}

// ClassifyConfig contains similarity thresholds and limits for the
// variant classifier. The numeric boundaries are a starting calibration,
// not ground truth; adjust them against human-confirmed groupings.
type ClassifyConfig struct {
	// StateVariantMin is the minimal name similarity for two skills from
	// different authorities to count as the same concept.
	StateVariantMin float64 `mapstructure:"state_variant_min" yaml:"state_variant_min"`

	// ProgressionMin is the lower bound of the similarity band for
	// grade-progression links.
	ProgressionMin float64 `mapstructure:"progression_min" yaml:"progression_min"`

	// ProgressionMax is the upper bound (exclusive) of the similarity band
	// for grade-progression links. Similarities at or above this bound are
	// considered for state-variant relations only.
	ProgressionMax float64 `mapstructure:"progression_max" yaml:"progression_max"`

	// MaxPairwise is the largest content area (by skill count) that is
	// still compared with a full cross-product. Larger areas switch to
	// sorted-neighborhood comparison.
	MaxPairwise int `mapstructure:"max_pairwise" yaml:"max_pairwise"`

	// Window is the number of sorted neighbors each skill is compared
	// with when a content area exceeds MaxPairwise.
	Window int `mapstructure:"window" yaml:"window"`

	// UniversalAuthorities lists authorities treated as cross-state
	// standards. A progression link is allowed between a universal
	// authority and any other authority.
	UniversalAuthorities []string `mapstructure:"universal_authorities" yaml:"universal_authorities"`

	// ExportFile, when set, receives a CSV copy of the full relationship
	// set. Runtime-only field - not in ToOptions().
	ExportFile string
}

// MappingConfig contains settings for the mapping assistant and the
// batch orchestrator.
type MappingConfig struct {
	// TopK is the number of taxonomy candidates retrieved for each skill
	// before the inference call.
	TopK int `mapstructure:"top_k" yaml:"top_k"`

	// CheckpointSize is the number of processed skills between checkpoint
	// flushes. A crash loses at most this many results.
	CheckpointSize int `mapstructure:"checkpoint_size" yaml:"checkpoint_size"`

	// ReviewSimilarity is the semantic similarity below which a mapping
	// is queued for human review even when its confidence is not Low.
	ReviewSimilarity float64 `mapstructure:"review_similarity" yaml:"review_similarity"`

	// CostPerCall is the assumed cost of one inference call in USD,
	// used for the running cost estimate of a batch.
	CostPerCall float64 `mapstructure:"cost_per_call" yaml:"cost_per_call"`

	// MaxRetries is the number of attempts for one inference call before
	// the skill is recorded with an error status.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// MaxFailStreak is the number of consecutive failed skills after
	// which the batch halts, treating the remote service as lost.
	MaxFailStreak int `mapstructure:"max_fail_streak" yaml:"max_fail_streak"`

	// Endpoint is the URL of the inference service. When empty, the
	// assistant uses a deterministic offline chooser instead of a remote
	// call.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// APIKey authenticates inference calls. Can also come from
	// SKILLMAP_MAPPING_API_KEY.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Model is the model name sent to the inference service.
	Model string `mapstructure:"model" yaml:"model"`

	// MinIntervalMs is the minimal delay between two inference calls in
	// milliseconds, shared by all workers.
	MinIntervalMs int `mapstructure:"min_interval_ms" yaml:"min_interval_ms"`

	// TimeoutSec is the per-call timeout in seconds, applied when the
	// caller's context has no deadline.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// OutputDir receives checkpoint snapshots, the review queue and
	// exports. Empty value resolves to ~/.local/share/skillmap/exports.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Limit caps the number of skills processed in one run. Zero means
	// no limit. Runtime-only field - not in ToOptions().
	Limit int
}

// EmbedConfig contains embedding engine settings.
type EmbedConfig struct {
	// Provider selects the embedding backend.
	// Valid values: "none", "genai", "ollama".
	// With "none" the retrieval index degrades to lexical scoring.
	Provider string `mapstructure:"provider" yaml:"provider"`

	// Model is the embedding model name.
	Model string `mapstructure:"model" yaml:"model"`

	// APIKey authenticates the genai provider. Can also come from
	// SKILLMAP_EMBED_API_KEY.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Host is the base URL of the ollama provider.
	Host string `mapstructure:"host" yaml:"host"`
}

// ValidateConfig contains settings for the taxonomy validator.
type ValidateConfig struct {
	// NearDupMin is the minimal lexical similarity for two non-identical
	// node names at the same level to be reported as near-duplicates.
	NearDupMin float64 `mapstructure:"near_dup_min" yaml:"near_dup_min"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "skillmap",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Classify: ClassifyConfig{
			StateVariantMin:      0.85,
			ProgressionMin:       0.60,
			ProgressionMax:       0.80,
			MaxPairwise:          2_000,
			Window:               200,
			UniversalAuthorities: []string{"CCSS"},
		},
		Mapping: MappingConfig{
			TopK:             20,
			CheckpointSize:   50,
			ReviewSimilarity: 0.50,
			CostPerCall:      0.0005,
			MaxRetries:       3,
			MaxFailStreak:    10,
			Model:            "gemini-2.0-flash",
			MinIntervalMs:    1_000,
			TimeoutSec:       60,
		},
		Embed: EmbedConfig{
			Provider: "none",
			Model:    "gemini-embedding-001",
			Host:     "http://localhost:11434",
		},
		Validate: ValidateConfig{
			NearDupMin: 0.85,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
