package main

import (
	"fmt"

	"github.com/spf13/cobra"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/graph"
)

func newExportCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a graph JSON file as BPMN XML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(in)
			if err != nil {
				return err
			}
			text, warnings, err := exportGraph(data, cfg)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				log.Warnf("%s", w)
			}
			return writeOutput(out, []byte(text))
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", stdio, "graph JSON file")
	cmd.Flags().StringVarP(&out, "output", "o", stdio, "BPMN file to write")
	return cmd
}

func exportGraph(data []byte, c *Config) (string, []bpmn.Warning, error) {
	g, err := graph.Unmarshal(data)
	if err != nil {
		return "", nil, err
	}

	var warnings []bpmn.Warning
	opts := append(c.exportOptions(), bpmn.WithReporter(bpmn.ReporterFunc(func(w bpmn.Warning) {
		warnings = append(warnings, w)
	})))
	text, err := bpmn.Export(g, opts...)
	if err != nil {
		return "", nil, fmt.Errorf("export: %w", err)
	}
	return text, warnings, nil
}
