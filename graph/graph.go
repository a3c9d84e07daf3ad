// Package graph is the in-memory model of a process diagram: typed nodes with
// positions and ownership, and the edges connecting them.
package graph

import (
	"sort"
)

// FlowKind separates control flow inside a participant from communication
// between participants.
type FlowKind string

const (
	SequenceFlow FlowKind = "sequenceFlow"
	MessageFlow  FlowKind = "messageFlow"
)

// EventSubtype selects the event definition written for an event node.
type EventSubtype string

const (
	SubtypeNone        EventSubtype = ""
	SubtypeMessage     EventSubtype = "message"
	SubtypeTimer       EventSubtype = "timer"
	SubtypeTerminate   EventSubtype = "terminate"
	SubtypeSignal      EventSubtype = "signal"
	SubtypeError       EventSubtype = "error"
	SubtypeConditional EventSubtype = "conditional"
	SubtypeEscalation  EventSubtype = "escalation"
)

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is a box in absolute diagram coordinates.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Bounds) Origin() AbsPoint {
	return AbsPoint{X: b.X, Y: b.Y}
}

func (b Bounds) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

func (b Bounds) Center() AbsPoint {
	return AbsPoint{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Attribute is an XML attribute kept verbatim for re-export.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes keeps document order, which a map would lose.
type Attributes []Attribute

func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value of name or appends it.
func (a *Attributes) Set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Name: name, Value: value})
}

// Without returns a copy dropping the named attributes.
func (a Attributes) Without(names ...string) Attributes {
	if len(a) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(names))
	for _, name := range names {
		excluded[name] = struct{}{}
	}
	out := make(Attributes, 0, len(a))
	for _, attr := range a {
		if _, ok := excluded[attr.Name]; ok {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// Metadata holds what the visual model does not otherwise keep, so that an
// imported document can be written back without losing information.
type Metadata struct {
	Attributes    Attributes   `json:"attributes,omitempty"`
	Documentation []string     `json:"documentation,omitempty"`
	Bounds        *Bounds      `json:"bounds,omitempty"`
	LabelBounds   *Bounds      `json:"labelBounds,omitempty"`
	ShapeID       string       `json:"shapeId,omitempty"`
	Waypoints     []AbsPoint   `json:"waypoints,omitempty"`
	EventSubtype  EventSubtype `json:"eventSubtype,omitempty"`

	ProcessID  string `json:"processId,omitempty"`
	Executable string `json:"executable,omitempty"`

	CollaborationID      string     `json:"collaborationId,omitempty"`
	ProcessAttributes    Attributes `json:"processAttributes,omitempty"`
	ProcessDocumentation []string   `json:"processDocumentation,omitempty"`
}

func (m Metadata) clone() Metadata {
	out := m
	out.Attributes = append(Attributes(nil), m.Attributes...)
	out.Documentation = append([]string(nil), m.Documentation...)
	out.Waypoints = append([]AbsPoint(nil), m.Waypoints...)
	out.ProcessAttributes = append(Attributes(nil), m.ProcessAttributes...)
	out.ProcessDocumentation = append([]string(nil), m.ProcessDocumentation...)
	if m.Bounds != nil {
		b := *m.Bounds
		out.Bounds = &b
	}
	if m.LabelBounds != nil {
		b := *m.LabelBounds
		out.LabelBounds = &b
	}
	return out
}

// Node is a diagram element.
type Node struct {
	ID   string `json:"id"`
	Kind Kind   `json:"type"`
	// Variant is the concrete element a generic kind stands for, e.g. a
	// task node imported from a serviceTask element.
	Variant       Kind   `json:"variant,omitempty"`
	Label         string `json:"label,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	Position      Point  `json:"position"`
	Size          *Size  `json:"size,omitempty"`
	ParentID      string `json:"parentId,omitempty"`
	LaneID        string `json:"laneId,omitempty"`
	ProcessRef    string `json:"processRef,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Effective is the most specific kind known for the node.
func (n *Node) Effective() Kind {
	if n.Variant.Valid() {
		return n.Variant
	}
	return n.Kind
}

func (n *Node) Clone() *Node {
	out := *n
	if n.Size != nil {
		s := *n.Size
		out.Size = &s
	}
	out.Metadata = n.Metadata.clone()
	return &out
}

// Edge connects two nodes.
type Edge struct {
	ID            string   `json:"id"`
	Source        string   `json:"source"`
	Target        string   `json:"target"`
	Label         string   `json:"label,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	FlowKind      FlowKind `json:"flowKind,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// IsMessage reports whether the edge crosses participants.
func (e *Edge) IsMessage() bool {
	return e.FlowKind == MessageFlow
}

func (e *Edge) Clone() *Edge {
	out := *e
	out.Metadata = e.Metadata.clone()
	return &out
}

// Lane is the record view of a lane node inside its participant.
type Lane struct {
	ID     string
	Name   string
	Top    float64
	Height float64
}

// Graph is a whole diagram. Node order is significant: it is the order in
// which elements are written on export.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

func New(nodes []*Node, edges []*Edge) *Graph {
	return &Graph{Nodes: nodes, Edges: edges}
}

func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

func (g *Graph) Edge(id string) (*Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Index returns the nodes keyed by id.
func (g *Graph) Index() map[string]*Node {
	out := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		out[n.ID] = n
	}
	return out
}

func (g *Graph) NodesOfKind(kind Kind) []*Node {
	out := make([]*Node, 0)
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) Participants() []*Node {
	return g.NodesOfKind(KindParticipant)
}

// ParticipantOf resolves the participant owning the node by walking its
// parent chain. The second result is false for ownerless nodes.
func (g *Graph) ParticipantOf(id string) (*Node, bool) {
	return participantOf(g.Index(), id)
}

func participantOf(index map[string]*Node, id string) (*Node, bool) {
	seen := map[string]struct{}{}
	n, ok := index[id]
	for ok {
		if n.Kind == KindParticipant {
			return n, true
		}
		if _, loop := seen[n.ID]; loop || n.ParentID == "" {
			break
		}
		seen[n.ID] = struct{}{}
		n, ok = index[n.ParentID]
	}
	return nil, false
}

// OwnerID is the id of the owning participant, empty when there is none.
func (g *Graph) OwnerID(id string) string {
	if p, ok := g.ParticipantOf(id); ok {
		return p.ID
	}
	return ""
}

// LanesOf lists the lane records of a participant ordered by their top
// offset inside it.
func (g *Graph) LanesOf(participantID string) []Lane {
	lanes := make([]Lane, 0)
	for _, n := range g.Nodes {
		if n.Kind != KindLane || n.ParentID != participantID {
			continue
		}
		size := n.Kind.DefaultSize()
		if n.Size != nil {
			size = *n.Size
		}
		lanes = append(lanes, Lane{ID: n.ID, Name: n.Label, Top: n.Position.Y, Height: size.Height})
	}
	sort.SliceStable(lanes, func(i, j int) bool { return lanes[i].Top < lanes[j].Top })
	return lanes
}

// Connect adds an edge between two existing nodes. Whether it is a message
// flow is decided here, from the participants owning either end.
func (g *Graph) Connect(id, source, target, label string) (*Edge, error) {
	index := g.Index()
	if _, ok := index[source]; !ok {
		return nil, &ReferenceError{Owner: id, Ref: source}
	}
	if _, ok := index[target]; !ok {
		return nil, &ReferenceError{Owner: id, Ref: target}
	}
	if _, exists := g.Edge(id); exists {
		return nil, &DuplicateError{ID: id}
	}

	edge := &Edge{ID: id, Source: source, Target: target, Label: label, FlowKind: SequenceFlow}
	sp, sok := participantOf(index, source)
	tp, tok := participantOf(index, target)
	if sok && tok && sp.ID != tp.ID {
		edge.FlowKind = MessageFlow
	}
	g.Edges = append(g.Edges, edge)
	return edge, nil
}

// Clone deep-copies the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{}
	if g.Nodes != nil {
		out.Nodes = make([]*Node, len(g.Nodes))
		for i, n := range g.Nodes {
			out.Nodes[i] = n.Clone()
		}
	}
	if g.Edges != nil {
		out.Edges = make([]*Edge, len(g.Edges))
		for i, e := range g.Edges {
			out.Edges[i] = e.Clone()
		}
	}
	return out
}

// IDs lists every node and edge id.
func (g *Graph) IDs() []string {
	out := make([]string, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		out = append(out, n.ID)
	}
	for _, e := range g.Edges {
		out = append(out, e.ID)
	}
	return out
}
