package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhamidi/devtext/dispatch"
	"github.com/dhamidi/devtext/format"
	"github.com/spf13/cobra"
)

func newValidateCmd(s *settings) *cobra.Command {
	var dialect string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check tag or brace balance",
		Long: `Check that tags (markup) or braces (code) are balanced and that no string
or comment is left open. Exits with status 1 when problems are found.

If no file is provided, reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readInput(args)
			if err != nil {
				return err
			}
			d, err := resolveDialect(dialect, filename)
			if err != nil {
				return err
			}

			kind := dispatch.KindValidateCode
			if d == format.DialectMarkup {
				kind = dispatch.KindValidateMarkup
			}
			out, err := runTask(s, kind, source)
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

	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "code or markup")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func reportValidation(filename string, result format.ValidationResult, asJSON bool) error {
	name := filename
	if name == "" {
		name = "<stdin>"
	}

	if asJSON {
		if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Printf("%s: ok\n", name)
	} else {
		for _, e := range result.Errors {
			fmt.Printf("%s: %s\n", name, e)
		}
	}

	if !result.Valid {
		return fmt.Errorf("%s: %d problem(s) found", name, len(result.Errors))
	}
	return nil
}
