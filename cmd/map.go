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
	"fmt"

	"github.com/edugraph/skillmap/internal/iodb"
	"github.com/edugraph/skillmap/internal/iomap"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

// getMapCmd returns the map command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMapCmd() *cobra.Command {
	var limit, jobs int

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Map skills onto the reference taxonomy",
		Long: `Map assigns every unmapped skill a path in the reference
taxonomy.

For each skill the mapper retrieves candidate taxonomy paths by
embedding similarity, then asks the configured inference service to
pick the best path with a confidence tier and rationale. Without a
configured endpoint (or when the embedding engine is unreachable)
the mapper degrades to deterministic lexical retrieval and an
offline chooser.

Results are checkpointed in batches: mappings land in the database,
low-confidence ones are appended to a review queue CSV, and a full
snapshot CSV is written after each batch. An interrupted run resumes
from the already-mapped skills.

Prerequisites:
  - Database must be created (run 'skillmap create' first)
  - Skills and taxonomy must be imported (run 'skillmap import' first)

Performance:
  Mapping speed is bounded by the inference service's rate limits.
  Use --limit to trial-run a small batch before a full run.

Examples:
  # Map all unmapped skills
  skillmap map

  # Trial-run the pipeline with a small batch
  skillmap map --limit 100

  # Use more concurrent workers
  skillmap map --jobs 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Override config with CLI flags if provided
			var flagOpts []config.Option
			if cmd.Flags().Changed("limit") {
				flagOpts = append(flagOpts, config.OptMappingLimit(limit))
			}
			if cmd.Flags().Changed("jobs") {
				flagOpts = append(flagOpts, config.OptJobsNumber(jobs))
			}
			cfg.Update(flagOpts)

			// Create database operator
			op := iodb.NewPgxOperator()

			// Connect to database (errors propagate from iodb package)
			err := op.Connect(ctx, &cfg.Database)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			// Create mapper
			mapper := iomap.New(cfg, op)

			// Map (errors propagate from iomap package)
			err = mapper.Map(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			// Display success message
			successMsg := gnlib.FormatMessage(`
<em>✓ Taxonomy mapping is complete.</em>
Review queue and checkpoint snapshots are in the output directory.
You can re-run <em>skillmap map</em> anytime to pick up new skills.
`,
				nil,
			)
			fmt.Println(successMsg)

			return nil
		},
	}

	// Add flags
	mapCmd.Flags().IntVar(&limit, "limit", 0,
		"Maximum number of skills to map in this run (default: all)")
	mapCmd.Flags().IntVarP(&jobs, "jobs", "j", 0,
		"Number of concurrent mapping workers (default: number of CPU cores)")

	return mapCmd
}
