/*
Copyright © 2025 EduGraph Contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/edugraph/skillmap/internal/iofs"
	"github.com/edugraph/skillmap/internal/iologger"
	app "github.com/edugraph/skillmap/pkg"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "skillmap",
		Short:   "SkillMap manages the lifecycle of the skills-graph PostgreSQL database",
		Long: `SkillMap builds and maintains a PostgreSQL database that unifies
state learning-standard skills into a deduplicated skills graph.

The pipeline runs in phases, each a subcommand:

  Schema Management:   create, migrate
  Data Import:         import
  Redundancy Analysis: classify
  Taxonomy Mapping:    map
  Concept Aggregation: concepts
  Taxonomy Validation: validate

Configuration lives in ~/.config/skillmap/config.yaml and can be
overridden with SKILLMAP_* environment variables.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "skillmap version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for skillmap")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getImportCmd(),
		getClassifyCmd(),
		getMapCmd(),
		getConceptsCmd(),
		getValidateCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// Appends to the log file created during bootstrap so early entries survive.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("SKILLMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.database", "DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "DATABASE_BATCH_SIZE")

	// Ingest configuration
	v.BindEnv("ingest.skills_file", "INGEST_SKILLS_FILE")
	v.BindEnv("ingest.taxonomy_file", "INGEST_TAXONOMY_FILE")
	v.BindEnv("ingest.metadata_file", "INGEST_METADATA_FILE")

	// Classify configuration
	v.BindEnv("classify.state_variant_min", "CLASSIFY_STATE_VARIANT_MIN")
	v.BindEnv("classify.progression_min", "CLASSIFY_PROGRESSION_MIN")
	v.BindEnv("classify.progression_max", "CLASSIFY_PROGRESSION_MAX")
	v.BindEnv("classify.max_pairwise", "CLASSIFY_MAX_PAIRWISE")
	v.BindEnv("classify.window", "CLASSIFY_WINDOW")
	v.BindEnv("classify.universal_authorities", "CLASSIFY_UNIVERSAL_AUTHORITIES")

	// Mapping configuration
	v.BindEnv("mapping.top_k", "MAPPING_TOP_K")
	v.BindEnv("mapping.checkpoint_size", "MAPPING_CHECKPOINT_SIZE")
	v.BindEnv("mapping.review_similarity", "MAPPING_REVIEW_SIMILARITY")
	v.BindEnv("mapping.cost_per_call", "MAPPING_COST_PER_CALL")
	v.BindEnv("mapping.max_retries", "MAPPING_MAX_RETRIES")
	v.BindEnv("mapping.max_fail_streak", "MAPPING_MAX_FAIL_STREAK")
	v.BindEnv("mapping.endpoint", "MAPPING_ENDPOINT")
	v.BindEnv("mapping.api_key", "MAPPING_API_KEY")
	v.BindEnv("mapping.model", "MAPPING_MODEL")
	v.BindEnv("mapping.min_interval_ms", "MAPPING_MIN_INTERVAL_MS")
	v.BindEnv("mapping.timeout_sec", "MAPPING_TIMEOUT_SEC")
	v.BindEnv("mapping.output_dir", "MAPPING_OUTPUT_DIR")

	// Embedding configuration
	v.BindEnv("embed.provider", "EMBED_PROVIDER")
	v.BindEnv("embed.model", "EMBED_MODEL")
	v.BindEnv("embed.api_key", "EMBED_API_KEY")
	v.BindEnv("embed.host", "EMBED_HOST")

	// Validate configuration
	v.BindEnv("validate.near_dup_min", "VALIDATE_NEAR_DUP_MIN")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}
