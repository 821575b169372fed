package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/devtext/format"
	"github.com/spf13/cobra"
)

func newSegmentsCmd() *cobra.Command {
	var dialect string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "segments [file]",
		Short: "Dump the scanner's segments for a file",
		Long: `Print every segment the scanner produces, with its position and nesting
depth, followed by the final scanner state. Useful for understanding why
minify or beautify treated some input the way they did.

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

			var encoder format.SegmentEncoder
			switch outputFormat {
			case "line":
				encoder = format.NewSegmentLineEncoder(os.Stdout)
			case "json":
				encoder = format.NewSegmentJSONEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(source, d); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "code or markup")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format: line or json")

	return cmd
}
