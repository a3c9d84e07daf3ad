// Copyright 2023 Lack (xingyys@gmail.com).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package builder assembles diagram graphs in code. Nodes are chained after
// the current one and laid out left to right, the way a modeller would draw a
// happy path first and branch later with Seek.
package builder

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/vine-io/bpmnkit/graph"
)

// DiagramBuilder builds a graph.Graph.
type DiagramBuilder struct {
	opts    *Options
	g       *graph.Graph
	nodes   *btree.Map[string, *graph.Node]
	counter graph.Counter

	pool *graph.Node
	lane *graph.Node
	cur  string
	err  error
}

func New(opts ...Option) *DiagramBuilder {
	options := NewOptions(opts...)

	counter := graph.Counter{Prefix: options.Prefix}
	if options.Counter != nil {
		counter = *options.Counter
	}

	return &DiagramBuilder{
		opts:    options,
		g:       graph.New([]*graph.Node{}, []*graph.Edge{}),
		nodes:   &btree.Map[string, *graph.Node]{},
		counter: counter,
	}
}

func (b *DiagramBuilder) mint() string {
	for {
		var id string
		id, b.counter = b.counter.Next()
		if _, exists := b.nodes.Get(id); exists {
			continue
		}
		if _, exists := b.g.Edge(id); exists {
			continue
		}
		return id
	}
}

func (b *DiagramBuilder) add(n *graph.Node) {
	b.nodes.Set(n.ID, n)
	b.g.Nodes = append(b.g.Nodes, n)
}

// Current is the id of the node the next one is chained after.
func (b *DiagramBuilder) Current() string {
	return b.cur
}

// Participant opens a pool below the existing ones. Nodes added afterwards
// belong to it.
func (b *DiagramBuilder) Participant(name string) *DiagramBuilder {
	if b.err != nil {
		return b
	}

	y := float64(poolY)
	for _, p := range b.g.Participants() {
		if bottom := p.Position.Y + p.Size.Height + poolStride - poolHeight; bottom > y {
			y = bottom
		}
	}

	p := &graph.Node{
		ID:         b.mint(),
		Kind:       graph.KindParticipant,
		Label:      name,
		Position:   graph.Point{X: poolX, Y: y},
		Size:       &graph.Size{Width: poolWidth, Height: poolHeight},
		ProcessRef: "Process_" + randName(),
	}
	b.add(p)
	b.pool, b.lane, b.cur = p, nil, ""
	return b
}

// Lane adds a lane under the lanes of the current participant. Nodes added
// afterwards are assigned to it.
func (b *DiagramBuilder) Lane(name string) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	if b.pool == nil {
		b.err = fmt.Errorf("lane %q needs a participant", name)
		return b
	}

	top := 0.0
	for _, lane := range b.g.LanesOf(b.pool.ID) {
		if bottom := lane.Top + lane.Height; bottom > top {
			top = bottom
		}
	}

	lane := &graph.Node{
		ID:       b.mint(),
		Kind:     graph.KindLane,
		Label:    name,
		ParentID: b.pool.ID,
		Position: graph.Point{X: laneGutter, Y: top},
		Size:     &graph.Size{Width: b.pool.Size.Width - laneGutter, Height: laneHeight},
	}
	b.add(lane)
	if bottom := top + laneHeight; bottom > b.pool.Size.Height {
		b.pool.Size.Height = bottom
	}
	b.lane = lane
	return b
}

func (b *DiagramBuilder) Start(label string) *DiagramBuilder {
	return b.Node(graph.KindStartEvent, label)
}

func (b *DiagramBuilder) Task(label string) *DiagramBuilder {
	return b.Node(graph.KindTask, label)
}

func (b *DiagramBuilder) Gateway(label string) *DiagramBuilder {
	return b.Node(graph.KindGateway, label)
}

func (b *DiagramBuilder) Event(label string) *DiagramBuilder {
	return b.Node(graph.KindIntermediateEvent, label)
}

func (b *DiagramBuilder) End(label string) *DiagramBuilder {
	return b.Node(graph.KindEndEvent, label)
}

// Node appends a node of any non-container kind after the current one and
// connects the two. Concrete kinds are kept as the variant of their generic
// kind.
func (b *DiagramBuilder) Node(kind graph.Kind, label string) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	if !kind.Valid() || kind.IsContainer() {
		b.err = fmt.Errorf("%s can not be chained", kind)
		return b
	}

	n := &graph.Node{ID: b.mint(), Kind: kind.Generic(), Label: label}
	if kind != n.Kind {
		n.Variant = kind
	}
	if b.pool != nil {
		n.ParentID = b.pool.ID
	}
	if b.lane != nil {
		n.LaneID = b.lane.ID
	}

	x, y := b.next()
	placeAt(n, x, y)
	b.add(n)
	if b.pool != nil {
		fit(b.pool, n)
	}

	if b.cur != "" {
		b.Link(b.cur, n.ID, "")
	}
	b.cur = n.ID
	return b
}

// next is the centre of the node appended after the current one: one
// interval to the right, on the row of the current lane, one branch lower
// for every flow already leaving the current node.
func (b *DiagramBuilder) next() (float64, float64) {
	y := b.opts.StartY
	switch {
	case b.lane != nil:
		y = b.lane.Position.Y + b.lane.Size.Height/2
	case b.pool != nil:
		y = poolHeight / 2
	}

	cur, ok := b.nodes.Get(b.cur)
	if !ok {
		return b.opts.StartX, y
	}

	cx, cy := center(cur)
	if cur.LaneID == b.laneID() && cur.ParentID == b.poolID() {
		branches := 0
		for _, e := range b.g.Edges {
			if e.Source == cur.ID && !e.IsMessage() {
				branches++
			}
		}
		y = cy + float64(branches)*b.opts.IntervalY
	}
	return cx + b.opts.IntervalX, y
}

func (b *DiagramBuilder) poolID() string {
	if b.pool == nil {
		return ""
	}
	return b.pool.ID
}

func (b *DiagramBuilder) laneID() string {
	if b.lane == nil {
		return ""
	}
	return b.lane.ID
}

// Seek moves the cursor to an existing node, together with its participant
// and lane.
func (b *DiagramBuilder) Seek(id string) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	n, ok := b.nodes.Get(id)
	if !ok {
		b.err = fmt.Errorf("seek: node %s not found", id)
		return b
	}

	b.pool, b.lane = nil, nil
	if p, ok := b.g.ParticipantOf(id); ok {
		b.pool = p
	}
	if lane, ok := b.nodes.Get(n.LaneID); ok {
		b.lane = lane
	}
	if n.Kind.IsContainer() {
		if n.Kind == graph.KindLane {
			b.lane = n
		}
		b.cur = ""
		return b
	}
	b.cur = id
	return b
}

// Documentation sets the documentation of the current node.
func (b *DiagramBuilder) Documentation(text string) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	if n, ok := b.nodes.Get(b.cur); ok {
		n.Documentation = text
	}
	return b
}

// Subtype sets the event definition of the current node.
func (b *DiagramBuilder) Subtype(st graph.EventSubtype) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	n, ok := b.nodes.Get(b.cur)
	if !ok || !n.Kind.IsEvent() {
		b.err = fmt.Errorf("subtype %s needs an event", st)
		return b
	}
	n.Metadata.EventSubtype = st
	return b
}

// Link connects two existing nodes. Whether it becomes a message flow follows
// from their participants.
func (b *DiagramBuilder) Link(src, dst, label string) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	if _, err := b.g.Connect(b.mint(), src, dst, label); err != nil {
		b.err = err
	}
	return b
}

// Message links two nodes of different participants.
func (b *DiagramBuilder) Message(src, dst, label string) *DiagramBuilder {
	if b.err != nil {
		return b
	}
	e, err := b.g.Connect(b.mint(), src, dst, label)
	if err != nil {
		b.err = err
		return b
	}
	if !e.IsMessage() {
		b.g.Edges = b.g.Edges[:len(b.g.Edges)-1]
		b.err = fmt.Errorf("message %s -> %s stays inside one participant", src, dst)
	}
	return b
}

// Build finishes the layout, validates the graph and returns it with the
// counter to continue minting ids from.
func (b *DiagramBuilder) Build() (*graph.Graph, graph.Counter, error) {
	if b.err != nil {
		return nil, b.counter, b.err
	}

	b.stack()
	if err := b.g.Validate(); err != nil {
		return nil, b.counter, err
	}
	return b.g.Clone(), b.counter, nil
}

// stack stretches lanes to the width of their participant and moves
// participants down where an earlier one grew into them.
func (b *DiagramBuilder) stack() {
	bottom := 0.0
	for _, p := range b.g.Participants() {
		if p.Position.Y < bottom {
			p.Position.Y = bottom
		}
		bottom = p.Position.Y + p.Size.Height + poolStride - poolHeight

		for _, n := range b.g.Nodes {
			if n.Kind == graph.KindLane && n.ParentID == p.ID {
				n.Size.Width = p.Size.Width - laneGutter
			}
		}
	}
}
