package main

import (
	"encoding/json"
	"fmt"

	"github.com/dhamidi/devtext/dispatch"
	"github.com/dhamidi/devtext/format"
	"github.com/spf13/cobra"
)

func newJSONCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Parse, format, query and edit JSON documents",
	}

	cmd.AddCommand(newJSONTaskCmd(s, "parse", "Parse a document and print its canonical form", dispatch.KindParseJSON))
	cmd.AddCommand(newJSONTaskCmd(s, "stringify", "Pretty-print a document with two-space indentation", dispatch.KindStringifyJSON))
	cmd.AddCommand(newJSONTaskCmd(s, "minify", "Remove all insignificant whitespace", dispatch.KindMinifyJSON))
	cmd.AddCommand(newJSONValidateCmd(s))
	cmd.AddCommand(newJSONQueryCmd())
	cmd.AddCommand(newJSONSetCmd())

	return cmd
}

func newJSONTaskCmd(s *settings, use, short string, kind dispatch.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := readInput(args)
			if err != nil {
				return err
			}
			out, err := runTask(s, kind, source)
			if err != nil {
				return err
			}
			return writeOutput("", out)
		},
	}
}

func newJSONValidateCmd(s *settings) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a document is well-formed JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readInput(args)
			if err != nil {
				return err
			}
			out, err := runTask(s, dispatch.KindValidateJSON, source)
			if err != nil {
				return err
			}
			var result format.ValidationResult
			if err := json.Unmarshal([]byte(out), &result); err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
			return reportValidation(filename, result, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func newJSONQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <path> [file]",
		Short: "Print the value at a path such as items.0.name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := readInput(args[1:])
			if err != nil {
				return err
			}
			out, err := format.QueryJSON(source, args[0])
			if err != nil {
				return err
			}
			return writeOutput("", out)
		},
	}
}

func newJSONSetCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "set <path> <value> [file]",
		Short: "Set the value at a path",
		Long: `Set the value at a path and print the updated document.

A value that is itself valid JSON is inserted as-is; anything else is
inserted as a string.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && len(args) < 3 {
				return fmt.Errorf("-w requires a file argument")
			}
			source, filename, err := readInput(args[2:])
			if err != nil {
				return err
			}
			out, err := format.SetJSON(source, args[0], args[1])
			if err != nil {
				return err
			}
			if overwrite {
				return writeOutput(filename, out)
			}
			return writeOutput("", out)
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
