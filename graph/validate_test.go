package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		graph func() *Graph
		ok    bool
	}{
		{"valid", twoPools, true},
		{"duplicate node", func() *Graph {
			g := twoPools()
			g.Nodes = append(g.Nodes, &Node{ID: "T1", Kind: KindTask})
			return g
		}, false},
		{"parent is a task", func() *Graph {
			g := twoPools()
			g.Nodes[5].ParentID = "T1"
			return g
		}, false},
		{"lane inside lane", func() *Graph {
			g := twoPools()
			g.Nodes[1].ParentID = "L2"
			return g
		}, false},
		{"lane reference to participant", func() *Graph {
			g := twoPools()
			g.Nodes[3].LaneID = "P1"
			return g
		}, false},
		{"negative position", func() *Graph {
			g := twoPools()
			g.Nodes[3].Position.X = -1
			return g
		}, false},
		{"unknown kind", func() *Graph {
			g := twoPools()
			g.Nodes[3].Kind = KindUnknown
			return g
		}, false},
		{"dangling edge", func() *Graph {
			g := twoPools()
			g.Edges = append(g.Edges, &Edge{ID: "F1", Source: "T1", Target: "nope", FlowKind: SequenceFlow})
			return g
		}, false},
		{"sequence flow across pools", func() *Graph {
			g := twoPools()
			g.Edges = append(g.Edges, &Edge{ID: "F1", Source: "T1", Target: "T2", FlowKind: SequenceFlow})
			return g
		}, false},
		{"message flow inside a pool", func() *Graph {
			g := twoPools()
			g.Edges = append(g.Edges, &Edge{ID: "M1", Source: "T1", Target: "L1", FlowKind: MessageFlow})
			return g
		}, false},
		{"empty node", func() *Graph {
			g := twoPools()
			g.Nodes = append(g.Nodes, nil)
			return g
		}, false},
		{"empty edge", func() *Graph {
			g := twoPools()
			g.Edges = append(g.Edges, nil)
			return g
		}, false},
		{"message flow across pools", func() *Graph {
			g := twoPools()
			g.Edges = append(g.Edges, &Edge{ID: "M1", Source: "T1", Target: "T2", FlowKind: MessageFlow})
			return g
		}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.graph().Validate()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
