package main

import (
	"github.com/dhamidi/devtext/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewLSPServer(version, s.dispatcher(), s.cfg.IndentUnit)
			return server.RunStdio()
		},
	}
}
