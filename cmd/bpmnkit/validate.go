package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vine-io/bpmnkit/api"
	"github.com/vine-io/bpmnkit/graph"
)

func newValidateCmd() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the structural rules of a graph JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(in)
			if err != nil {
				return err
			}
			g, err := graph.Unmarshal(data)
			if err != nil {
				return err
			}

			rsp := api.NewValidateResponse(g.Validate())
			out := cmd.OutOrStdout()
			if rsp.Valid {
				fmt.Fprintln(out, "graph is valid")
				return nil
			}
			for _, id := range rsp.Keys() {
				fmt.Fprintf(out, "%s: %s\n", id, rsp.Errors[id])
			}
			return fmt.Errorf("graph has %d invalid elements", len(rsp.Errors))
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", stdio, "graph JSON file")
	return cmd
}
