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
	"github.com/edugraph/skillmap/internal/iovalidate"
	"github.com/edugraph/skillmap/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getValidateCmd returns the validate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getValidateCmd() *cobra.Command {
	var nearDupMin float64

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate taxonomy structure and coverage",
		Long: `Validate walks the imported taxonomy tree and reports quality
issues:

  - exact duplicate node names within a level (error)
  - near-duplicate node names within a level (info)
  - nodes with a single child (info)
  - tree statistics: node counts, depth, branching factor
  - leaf coverage by successful mappings (when mappings exist)

The report is printed and written as JSON to the output directory.
Validation never modifies the database.

Prerequisites:
  - Taxonomy must be imported (run 'skillmap import' first)

Examples:
  skillmap validate

  # Tighten the near-duplicate threshold
  skillmap validate --near-dup-min 0.9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Override config with CLI flags if provided
			if cmd.Flags().Changed("near-dup-min") {
				cfg.Update([]config.Option{
					config.OptValidateNearDupMin(nearDupMin),
				})
			}

			return runValidate(cmd, args)
		},
	}

	validateCmd.Flags().Float64Var(&nearDupMin, "near-dup-min", 0,
		"minimum name similarity to report near-duplicates (0..1)")

	return validateCmd
}

func runValidate(_ *cobra.Command, _ []string) error {
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

	val := iovalidate.New(cfg, op)

	if err := val.Validate(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	return nil
}
