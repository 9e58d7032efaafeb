package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/api"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("smartmcq", version)
		fmt.Printf("backend API %s.x\n", api.SupportedMajor)
	},
}
