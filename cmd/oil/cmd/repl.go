package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/msto63/oil/internal/tui"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive parser",
		Long: `Starts a terminal REPL. Each input is lexed and parsed; the result is
shown as AST, interchange JSON or token table.

Navigation:
  Tab       - switch view
  Enter     - parse input
  Ctrl+P/N  - previous / next input
  Ctrl+L    - clear history
  Ctrl+C    - quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(a.engine,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
		},
	}
}
