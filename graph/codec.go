package graph

import (
	"fmt"

	json "github.com/json-iterator/go"
)

// Marshal encodes the graph in the editor's JSON layout.
func Marshal(g *Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

func Unmarshal(data []byte) (*Graph, error) {
	g := &Graph{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if g.Nodes == nil {
		g.Nodes = []*Node{}
	}
	if g.Edges == nil {
		g.Edges = []*Edge{}
	}
	for _, e := range g.Edges {
		if e.FlowKind == "" {
			e.FlowKind = SequenceFlow
		}
	}
	return g, nil
}
