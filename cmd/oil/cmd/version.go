package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/oil/pkg/core/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// Skip configuration loading
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.Info())
			for _, component := range []string{"cli", "service", "repl"} {
				fmt.Fprintf(out, "  %-10s %s\n", component+":", version.ComponentVersion(component))
			}
			fmt.Fprintf(out, "  %-10s %s\n", "go:", runtime.Version())
		},
	}
}
