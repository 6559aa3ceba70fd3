package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/msto63/oil/internal/render"
)

func newLexCmd(a *app) *cobra.Command {
	var (
		format string
		indent int
	)

	c := &cobra.Command{
		Use:   "lex [file]",
		Short: "List the tokens of oil notation",
		Long: `Scans a file, or stdin, and prints each token with its position,
kind, source text and decoded value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}
			in := inputs[0]

			tokens, err := a.engine.Lex(in.text)
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), render.Diagnostic(in.name, in.text, err))
				return ErrReported
			}

			out, err := render.Tokens(tokens, format, indent)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	c.Flags().StringVarP(&format, "format", "f", render.FormatTable, "output format: table, json, yaml")
	c.Flags().IntVar(&indent, "indent", 2, "JSON indentation (0: compact)")
	return c
}
