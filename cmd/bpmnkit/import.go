package main

import (
	"fmt"

	"github.com/spf13/cobra"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/graph"
)

func newImportCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Read a BPMN XML file into graph JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(in)
			if err != nil {
				return err
			}
			result, encoded, err := importGraph(data, cfg)
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				log.Warnf("%s", w)
			}
			next, _ := result.Counter.Next()
			log.Infof("imported %d nodes and %d edges, next id %s", len(result.Graph.Nodes), len(result.Graph.Edges), next)
			return writeOutput(out, encoded)
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", stdio, "BPMN file")
	cmd.Flags().StringVarP(&out, "output", "o", stdio, "graph JSON file to write")
	return cmd
}

func importGraph(data []byte, c *Config) (*bpmn.Result, []byte, error) {
	result, err := bpmn.Import(string(data), c.importOptions()...)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := graph.Marshal(result.Graph)
	if err != nil {
		return nil, nil, fmt.Errorf("encode graph: %w", err)
	}
	return result, encoded, nil
}
