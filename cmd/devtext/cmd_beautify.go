package main

import (
	"fmt"

	"github.com/dhamidi/devtext/dispatch"
	"github.com/dhamidi/devtext/format"
	"github.com/spf13/cobra"
)

func newBeautifyCmd(s *settings) *cobra.Command {
	var dialect string
	var overwrite bool

	cmd := &cobra.Command{
		Use:     "beautify [file]",
		Aliases: []string{"fmt"},
		Short:   "Re-indent code or markup by nesting depth",
		Long: `Beautify code or markup and print the result to stdout.

Braces and tags start new lines indented by their depth; statements end at
semicolons. Indentation comes from --indent, the config file, or two spaces.
If no file is provided, reads from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}
			source, filename, err := readInput(args)
			if err != nil {
				return err
			}
			d, err := resolveDialect(dialect, filename)
			if err != nil {
				return err
			}

			kind := dispatch.KindBeautifyCode
			if d == format.DialectMarkup {
				kind = dispatch.KindBeautifyMarkup
			}
			out, err := runTask(s, kind, source)
			if err != nil {
				return err
			}

			if overwrite {
				return writeOutput(filename, out)
			}
			return writeOutput("", out)
		},
	}

	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "code or markup")
	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
