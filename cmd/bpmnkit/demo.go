package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/builder"
	"github.com/vine-io/bpmnkit/graph"
)

func newDemoCmd() *cobra.Command {
	var (
		out    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a sample two-pool diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := demoGraph()
			if err != nil {
				return err
			}

			var data []byte
			if asJSON {
				data, err = graph.Marshal(g)
			} else {
				var text string
				text, err = bpmn.Export(g, cfg.exportOptions()...)
				data = []byte(text)
			}
			if err != nil {
				return err
			}
			return writeOutput(out, data)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", stdio, "file to write")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write graph JSON instead of BPMN")
	return cmd
}

// demoGraph is a customer ordering a pizza from a shop.
func demoGraph() (*graph.Graph, error) {
	b := builder.New()
	b.Participant("Customer").
		Lane("Hungry").Start("Hungry for pizza").Task("Select a pizza").
		Lane("Order").Task("Order a pizza")
	order := b.Current()
	b.Event("Pizza received").Subtype(graph.SubtypeMessage)
	received := b.Current()
	b.Task("Eat the pizza").End("Hunger satisfied")

	b.Participant("Pizza shop").
		Start("Order received").Subtype(graph.SubtypeMessage)
	shopStart := b.Current()
	b.Task("Bake the pizza").Task("Deliver the pizza")
	deliver := b.Current()
	b.End("Delivered")

	g, _, err := b.
		Message(order, shopStart, "pizza order").
		Message(deliver, received, "pizza").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build demo: %w", err)
	}
	return g, nil
}
