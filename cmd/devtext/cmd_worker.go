package main

import (
	"os"

	"github.com/dhamidi/devtext/dispatch"
	"github.com/spf13/cobra"
)

// newWorkerCmd is the child side of process isolation: one JSON request on
// stdin, one JSON response on stdout.
func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Run a single task read from stdin",
		Hidden: true,
		Args:   cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch.Serve(os.Stdin, os.Stdout)
		},
	}
}
