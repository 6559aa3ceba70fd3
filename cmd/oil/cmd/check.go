package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/oil/internal/render"
)

func newCheckCmd(a *app) *cobra.Command {
	var quiet bool

	c := &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate oil notation",
		Long: `Parses each file, or stdin, and reports OK or FAIL per input. Failures
are followed by their diagnostic. The exit status is 1 when any input fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, in := range inputs {
				if err := a.engine.Check(in.text); err != nil {
					failed++
					fmt.Fprintf(out, "%s %s\n", render.ErrorStyle.Render("FAIL"), in.name)
					fmt.Fprint(out, render.Diagnostic(in.name, in.text, err))
					continue
				}
				if !quiet {
					fmt.Fprintf(out, "%s   %s\n", render.OKStyle.Render("OK"), in.name)
				}
			}

			fmt.Fprintf(out, "\n%d checked, %d failed\n", len(inputs), failed)
			if failed > 0 {
				return ErrReported
			}
			return nil
		},
	}

	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report failures")
	return c
}
