package cmd

import (
	"fmt"
	"os"

	app "github.com/edugraph/skillmap/pkg"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", app.Version, app.Build)
		os.Exit(0)
	}
}
