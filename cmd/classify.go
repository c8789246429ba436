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

	"github.com/edugraph/skillmap/internal/ioclassify"
	"github.com/edugraph/skillmap/internal/iodb"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getClassifyCmd returns the classify command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getClassifyCmd() *cobra.Command {
	var jobs int
	var exportFile string

	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify skill redundancy into equivalence groups",
		Long: `Classify partitions the imported skill corpus into
equivalence relationships:

  state-variant:      the same skill phrased differently across authorities
  grade-progression:  one concept family spiraling across sequential grades
  unique:             skills with no qualifying relationship

Each run replaces the previous relationship set wholesale, so the
result only depends on the current skill corpus and thresholds.

Prerequisites:
  - Database must be created (run 'skillmap create' first)
  - Skills must be imported (run 'skillmap import' first)

Examples:
  # Classify with default settings
  skillmap classify

  # Use more workers on powerful servers
  skillmap classify --jobs 16

  # Export the resulting groups to CSV
  skillmap classify --export groups.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Override config with CLI flags if provided
			var flagOpts []config.Option
			if cmd.Flags().Changed("jobs") {
				flagOpts = append(flagOpts, config.OptJobsNumber(jobs))
			}
			if cmd.Flags().Changed("export") {
				flagOpts = append(flagOpts,
					config.OptClassifyExportFile(exportFile))
			}
			cfg.Update(flagOpts)

			return runClassify(cmd, args)
		},
	}

	classifyCmd.Flags().IntVarP(&jobs, "jobs", "j", 0,
		"number of concurrent workers (default: number of CPU cores)")
	classifyCmd.Flags().StringVar(&exportFile, "export", "",
		"export equivalence groups to the given CSV file")

	return classifyCmd
}

func runClassify(_ *cobra.Command, _ []string) error {
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

	cls := ioclassify.New(cfg, op)

	gn.Info("Classifying skill redundancy...")
	if err := cls.Classify(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("\nClassification complete!")
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'skillmap map' to map skills to the taxonomy")
	gn.Info("  - Run 'skillmap concepts' to build master concepts")

	return nil
}
