package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out.Print(fmt.Sprintf("toon %s (%s)", appVersion, appCommit))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
