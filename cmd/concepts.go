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

	"github.com/edugraph/skillmap/internal/ioconcept"
	"github.com/edugraph/skillmap/internal/iodb"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getConceptsCmd returns the concepts command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getConceptsCmd() *cobra.Command {
	conceptsCmd := &cobra.Command{
		Use:   "concepts",
		Short: "Regenerate master concepts from equivalence groups",
		Long: `Concepts collapses each state-variant equivalence group into a
single master concept and regenerates the skill-to-concept bridge.

For each group the aggregator picks a representative taxonomy path
(preferring higher-confidence mappings), derives a complexity band
from the grade spread of the members, and majority-votes enrichment
attributes. Output is rebuilt from scratch on every run, so it only
depends on the current groups and mappings.

The concepts and the bridge are written to the database and exported
as CSV files to the output directory.

Prerequisites:
  - Skills must be classified (run 'skillmap classify' first)
  - Mapping enriches concepts but is not required

Examples:
  skillmap concepts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConcepts(cmd, args)
		},
	}

	return conceptsCmd
}

func runConcepts(_ *cobra.Command, _ []string) error {
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

	agg := ioconcept.New(cfg, op)

	gn.Info("Regenerating master concepts...")
	if err := agg.Aggregate(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Master concepts are up to date.")

	return nil
}
