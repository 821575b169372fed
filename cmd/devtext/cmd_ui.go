package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dhamidi/devtext/ui"
	"github.com/spf13/cobra"
)

func newUICmd(s *settings) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web UI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = s.cfg.Addr
			}
			server, err := ui.NewServer(s.dispatcher(), s.cfg.IndentUnit)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (default from config, localhost:8080)")

	return cmd
}
