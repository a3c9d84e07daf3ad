package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vine-io/bpmnkit"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve export, import and validation over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := bpmnkit.NewServer(
				bpmnkit.WithIndent(cfg.Indent),
				bpmnkit.WithHeuristics(cfg.Heuristics),
				bpmnkit.WithMaxBodyBytes(cfg.MaxBodyBytes),
			)
			return s.ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().String("addr", ":8080", "address to listen on")
	return cmd
}
