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
	"context"

	"github.com/edugraph/skillmap/internal/iodb"
	"github.com/edugraph/skillmap/internal/ioingest"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getImportCmd() *cobra.Command {
	var skillsFile, taxonomyFile, metadataFile string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import skills, taxonomy and metadata into the database",
		Long: `Import loads the skill inventory, the reference taxonomy and
optional enrichment metadata into the database.

Inputs:
  - Skills file (CSV or SQLite): the raw skill inventory
  - Taxonomy file (CSV or YAML): the hierarchical reference taxonomy
  - Metadata file (CSV, optional): per-skill enrichment attributes

All inputs are validated before any row is written; a validation
failure aborts the import and leaves the database untouched.
Re-running import on the same inputs is idempotent.

Prerequisites:
  - Database must be created (run 'skillmap create' first)

Examples:
  # Use files configured in config.yaml
  skillmap import

  # Override input files from the command line
  skillmap import --skills skills.csv --taxonomy taxonomy.yaml

  # Include enrichment metadata
  skillmap import --skills skills.db --taxonomy tax.yaml --metadata meta.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Override config with CLI flags if provided
			var flagOpts []config.Option
			if cmd.Flags().Changed("skills") {
				flagOpts = append(flagOpts,
					config.OptIngestSkillsFile(skillsFile))
			}
			if cmd.Flags().Changed("taxonomy") {
				flagOpts = append(flagOpts,
					config.OptIngestTaxonomyFile(taxonomyFile))
			}
			if cmd.Flags().Changed("metadata") {
				flagOpts = append(flagOpts,
					config.OptIngestMetadataFile(metadataFile))
			}
			cfg.Update(flagOpts)

			return runImport(cmd, args)
		},
	}

	importCmd.Flags().StringVar(&skillsFile, "skills", "",
		"skills inventory file (CSV or SQLite)")
	importCmd.Flags().StringVar(&taxonomyFile, "taxonomy", "",
		"reference taxonomy file (CSV or YAML)")
	importCmd.Flags().StringVar(&metadataFile, "metadata", "",
		"skill metadata file (CSV)")

	return importCmd
}

func runImport(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Create database operator
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	// Check if database has tables
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if !hasTables {
		gn.Warn(`Warning: Database appears to be empty.
	Run 'skillmap create' first to initialize the schema.`)
		return nil
	}

	ing := ioingest.New(cfg, op)

	gn.Info("Importing skills and taxonomy...")
	if err := ing.Import(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("\nImport complete!")
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'skillmap classify' to detect redundancy")
	gn.Info("  - Run 'skillmap map' to map skills to the taxonomy")

	return nil
}
