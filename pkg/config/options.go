package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records to process per batch.
// Used for bulk inserts in import, classify, map and concepts phases.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptIngestSkillsFile sets the path of the skill inventory file.
// Runtime-only field - not in ToOptions().
func OptIngestSkillsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Skills File", s) {
			c.Ingest.SkillsFile = s
		}
	}
}

// OptIngestTaxonomyFile sets the path of the reference taxonomy file.
// Runtime-only field - not in ToOptions().
func OptIngestTaxonomyFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxonomy File", s) {
			c.Ingest.TaxonomyFile = s
		}
	}
}

// OptIngestMetadataFile sets the path of the optional enrichment CSV.
// Runtime-only field - not in ToOptions().
func OptIngestMetadataFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metadata File", s) {
			c.Ingest.MetadataFile = s
		}
	}
}

// OptClassifyStateVariantMin sets the minimal similarity for
// state-variant relations.
func OptClassifyStateVariantMin(f float64) Option {
	return func(c *Config) {
		if isValidRatio("State Variant Min", f) {
			c.Classify.StateVariantMin = f
		}
	}
}

// OptClassifyProgressionMin sets the lower bound of the
// grade-progression similarity band.
func OptClassifyProgressionMin(f float64) Option {
	return func(c *Config) {
		if isValidRatio("Progression Min", f) {
			c.Classify.ProgressionMin = f
		}
	}
}

// OptClassifyProgressionMax sets the upper bound of the
// grade-progression similarity band.
func OptClassifyProgressionMax(f float64) Option {
	return func(c *Config) {
		if isValidRatio("Progression Max", f) {
			c.Classify.ProgressionMax = f
		}
	}
}

// OptClassifyMaxPairwise sets the largest content area compared with a
// full cross-product.
func OptClassifyMaxPairwise(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Pairwise", i) {
			c.Classify.MaxPairwise = i
		}
	}
}

// OptClassifyWindow sets the sorted-neighborhood window size.
func OptClassifyWindow(i int) Option {
	return func(c *Config) {
		if isValidInt("Window", i) {
			c.Classify.Window = i
		}
	}
}

// OptClassifyUniversalAuthorities sets the list of authorities treated
// as cross-state standards.
func OptClassifyUniversalAuthorities(ss []string) Option {
	return func(c *Config) {
		if len(ss) > 0 {
			c.Classify.UniversalAuthorities = ss
		}
	}
}

// OptClassifyExportFile sets the destination of the relationship CSV
// export. Runtime-only field - not in ToOptions().
func OptClassifyExportFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Export File", s) {
			c.Classify.ExportFile = s
		}
	}
}

// OptMappingTopK sets the number of taxonomy candidates retrieved per
// skill.
func OptMappingTopK(i int) Option {
	return func(c *Config) {
		if isValidInt("Top K", i) {
			c.Mapping.TopK = i
		}
	}
}

// OptMappingCheckpointSize sets the number of processed skills between
// checkpoint flushes.
func OptMappingCheckpointSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Checkpoint Size", i) {
			c.Mapping.CheckpointSize = i
		}
	}
}

// OptMappingReviewSimilarity sets the similarity below which a mapping
// is queued for review.
func OptMappingReviewSimilarity(f float64) Option {
	return func(c *Config) {
		if isValidRatio("Review Similarity", f) {
			c.Mapping.ReviewSimilarity = f
		}
	}
}

// OptMappingCostPerCall sets the assumed cost of one inference call in
// USD.
func OptMappingCostPerCall(f float64) Option {
	return func(c *Config) {
		if f >= 0 {
			c.Mapping.CostPerCall = f
		}
	}
}

// OptMappingMaxRetries sets the number of attempts per inference call.
func OptMappingMaxRetries(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Retries", i) {
			c.Mapping.MaxRetries = i
		}
	}
}

// OptMappingMaxFailStreak sets the number of consecutive failures that
// halts a batch.
func OptMappingMaxFailStreak(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Fail Streak", i) {
			c.Mapping.MaxFailStreak = i
		}
	}
}

// OptMappingEndpoint sets the URL of the inference service.
func OptMappingEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mapping Endpoint", s) {
			c.Mapping.Endpoint = s
		}
	}
}

// OptMappingAPIKey sets the API key for inference calls.
func OptMappingAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mapping API Key", s) {
			c.Mapping.APIKey = s
		}
	}
}

// OptMappingModel sets the model name sent to the inference service.
func OptMappingModel(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mapping Model", s) {
			c.Mapping.Model = s
		}
	}
}

// OptMappingMinIntervalMs sets the minimal delay between inference
// calls in milliseconds.
func OptMappingMinIntervalMs(i int) Option {
	return func(c *Config) {
		if isValidInt("Min Interval Ms", i) {
			c.Mapping.MinIntervalMs = i
		}
	}
}

// OptMappingTimeoutSec sets the per-call timeout in seconds.
func OptMappingTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Timeout Sec", i) {
			c.Mapping.TimeoutSec = i
		}
	}
}

// OptMappingOutputDir sets the directory for checkpoint snapshots and
// exports.
func OptMappingOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Dir", s) {
			c.Mapping.OutputDir = s
		}
	}
}

// OptMappingLimit caps the number of skills processed in one run.
// Runtime-only field - not in ToOptions().
func OptMappingLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Limit", i) {
			c.Mapping.Limit = i
		}
	}
}

// OptEmbedProvider selects the embedding backend.
// Valid values: "none", "genai", "ollama".
func OptEmbedProvider(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Embed.Provider", s) {
			c.Embed.Provider = s
		}
	}
}

// OptEmbedModel sets the embedding model name.
func OptEmbedModel(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Embed Model", s) {
			c.Embed.Model = s
		}
	}
}

// OptEmbedAPIKey sets the API key for the genai provider.
func OptEmbedAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Embed API Key", s) {
			c.Embed.APIKey = s
		}
	}
}

// OptEmbedHost sets the base URL of the ollama provider.
func OptEmbedHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Embed Host", s) {
			c.Embed.Host = s
		}
	}
}

// OptValidateNearDupMin sets the minimal similarity for near-duplicate
// reports.
func OptValidateNearDupMin(f float64) Option {
	return func(c *Config) {
		if isValidRatio("Near Dup Min", f) {
			c.Validate.NearDupMin = f
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel
// operations. Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log
// locations. Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
