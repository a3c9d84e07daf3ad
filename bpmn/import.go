package bpmn

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/tidwall/btree"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/bpmnkit/graph"
	"github.com/vine-io/bpmnkit/schema"
)

// Default placement of elements the diagram section does not draw.
const (
	participantX      = 50
	participantY      = 50
	participantStride = 280
	participantWidth  = 910
	participantHeight = 250

	laneX      = 60
	laneY      = 30
	laneHeight = 120
	laneInset  = 80

	elementX      = 100
	elementY      = 100
	elementStride = 50
)

// Result is the outcome of a successful Import.
type Result struct {
	Graph *graph.Graph
	// Counter mints ids that never collide with the imported ones.
	Counter  graph.Counter
	Warnings []Warning
}

// Import reads a BPMN 2.0 document into a graph. Text that is not well-formed
// fails with a *ParseError matching ErrMalformedInput; no partial graph is
// ever returned.
func Import(text string, opts ...Option) (*Result, error) {
	options := NewOptions(opts...)

	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, &ParseError{Reason: "invalid XML format", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Reason: "document has no root element"}
	}
	if len(doc.ChildElements()) != 1 {
		return nil, &ParseError{Reason: "document has more than one root element"}
	}

	m := newImporter(options)
	if err := m.read(root); err != nil {
		return nil, err
	}

	counter := graph.CounterFrom(m.g.IDs())
	counter.Prefix = options.IDPrefix
	log.Debugf("bpmn: imported %d nodes and %d edges with %d warnings", len(m.g.Nodes), len(m.g.Edges), len(m.diag.warnings))

	return &Result{Graph: m.g, Counter: counter, Warnings: m.diag.warnings}, nil
}

type shapeInfo struct {
	ID     string
	Bounds graph.Bounds
	Label  *graph.Bounds
}

type edgeInfo struct {
	ID        string
	Waypoints []graph.AbsPoint
	Label     *graph.Bounds
}

type importer struct {
	opts *Options
	diag *diagnostics

	shapes *btree.Map[string, shapeInfo]
	edges  *btree.Map[string, edgeInfo]

	g      *graph.Graph
	ids    map[string]struct{}
	nodes  map[string]*graph.Node
	owners map[string]string

	byProcess map[string]*graph.Node
	flows     []*etree.Element

	generated int
	placed    int
}

func newImporter(opts *Options) *importer {
	return &importer{
		opts:      opts,
		diag:      newDiagnostics(opts.Reporter),
		shapes:    &btree.Map[string, shapeInfo]{},
		edges:     &btree.Map[string, edgeInfo]{},
		g:         graph.New([]*graph.Node{}, []*graph.Edge{}),
		ids:       map[string]struct{}{},
		nodes:     map[string]*graph.Node{},
		owners:    map[string]string{},
		byProcess: map[string]*graph.Node{},
	}
}

func (m *importer) read(root *etree.Element) error {
	if !schema.IsModel(root, schema.Definitions) {
		m.diag.warn(CodeUnknownElement, root.FullTag(), "root is not a definitions element")
	}

	m.indexDiagram(root)

	collaboration := schema.FindModel(root, schema.Collaboration)
	if collaboration != nil {
		m.readParticipants(collaboration)
	}
	for _, proc := range schema.ModelChildren(root, schema.Process) {
		if err := m.readProcess(proc); err != nil {
			return err
		}
	}
	m.readSequenceFlows()
	if collaboration != nil {
		m.readMessageFlows(collaboration)
	}
	return nil
}

// indexDiagram builds the shape and edge lookups keyed by the model element
// they decorate.
func (m *importer) indexDiagram(root *etree.Element) {
	for _, shape := range schema.FindDiagram(root, schema.BPMNShape) {
		element, _ := getAttr(shape.Attr, schema.AttrBPMNElement)
		bounds, ok := schema.ReadShapeBounds(shape)
		if !ok {
			continue
		}
		id, _ := getAttr(shape.Attr, schema.AttrID)
		info := shapeInfo{ID: id, Bounds: bounds}
		info.Label, _ = schema.ReadLabelBounds(shape)
		m.shapes.Set(element, info)
	}

	for _, edge := range schema.FindDiagram(root, schema.BPMNEdge) {
		element, _ := getAttr(edge.Attr, schema.AttrBPMNElement)
		id, _ := getAttr(edge.Attr, schema.AttrID)
		info := edgeInfo{ID: id, Waypoints: schema.ReadWaypoints(edge)}
		info.Label, _ = schema.ReadLabelBounds(edge)
		m.edges.Set(element, info)
	}
}

func (m *importer) generateID(tag string) string {
	m.generated++
	return fmt.Sprintf("%s_%d", tag, m.generated)
}

// addNode registers n unless its id is taken.
func (m *importer) addNode(n *graph.Node, owner string) bool {
	if _, dup := m.ids[n.ID]; dup {
		m.diag.warn(CodeDuplicateID, n.ID, "%s reuses an existing id, skipped", n.Kind)
		return false
	}
	m.ids[n.ID] = struct{}{}
	m.nodes[n.ID] = n
	m.owners[n.ID] = owner
	m.g.Nodes = append(m.g.Nodes, n)
	return true
}

func (m *importer) addEdge(e *graph.Edge) bool {
	if _, dup := m.ids[e.ID]; dup {
		m.diag.warn(CodeDuplicateID, e.ID, "%s reuses an existing id, skipped", e.FlowKind)
		return false
	}
	m.ids[e.ID] = struct{}{}
	m.g.Edges = append(m.g.Edges, e)
	return true
}

func (m *importer) decorate(md *graph.Metadata, id string) (shapeInfo, bool) {
	info, ok := m.shapes.Get(id)
	if !ok {
		return info, false
	}
	b := info.Bounds
	md.Bounds = &b
	md.LabelBounds = info.Label
	md.ShapeID = info.ID
	return info, true
}

func (m *importer) readParticipants(collaboration *etree.Element) {
	collaborationID, _ := getAttr(collaboration.Attr, schema.AttrID)
	for i, el := range schema.ModelChildren(collaboration, schema.Participant) {
		id, _ := getAttr(el.Attr, schema.AttrID)
		if id == "" {
			id = m.generateID(el.Tag)
		}
		name, _ := getAttr(el.Attr, schema.AttrName)
		if name == "" {
			name = graph.KindParticipant.DefaultLabel()
		}
		ref, _ := getAttr(el.Attr, schema.AttrProcessRef)

		p := &graph.Node{
			ID:         id,
			Kind:       graph.KindParticipant,
			Label:      name,
			ProcessRef: ref,
			Position:   graph.Point{X: participantX, Y: participantY + float64(i*participantStride)},
			Size:       &graph.Size{Width: participantWidth, Height: participantHeight},
		}
		if info, ok := m.decorate(&p.Metadata, id); ok {
			p.Position = nonNegative(graph.Point{X: info.Bounds.X, Y: info.Bounds.Y})
			size := info.Bounds.Size()
			p.Size = &size
		}
		p.Metadata.Attributes = readAttributes(el)
		p.Metadata.Documentation = readDocumentation(el)
		p.Metadata.CollaborationID = collaborationID

		if !m.addNode(p, id) {
			continue
		}
		if ref != "" {
			m.byProcess[ref] = p
		}
	}
}

// participantBox is the diagram-space box of a participant. Its origin is the
// clamped position, the same one ToAbsolute starts from.
func participantBox(p *graph.Node) graph.Bounds {
	size := graph.SizeOf(p)
	return graph.Bounds{X: p.Position.X, Y: p.Position.Y, Width: size.Width, Height: size.Height}
}

func (m *importer) readProcess(proc *etree.Element) error {
	processID, _ := getAttr(proc.Attr, schema.AttrID)
	executable, _ := getAttr(proc.Attr, schema.AttrExecutable)

	var participant *graph.Node
	var box graph.Bounds
	if processID != "" {
		participant = m.byProcess[processID]
	}
	if participant != nil {
		participant.Metadata.ProcessAttributes = readAttributes(proc)
		participant.Metadata.ProcessDocumentation = readDocumentation(proc)
		participant.Metadata.Executable = executable
		box = participantBox(participant)
	}

	laneOf := m.readLanes(proc, participant, box)

	referenced := map[string]struct{}{}
	for _, ref := range schema.ModelChildren(proc, "dataObjectReference") {
		if id, ok := getAttr(ref.Attr, schema.AttrDataRef); ok {
			referenced[id] = struct{}{}
		}
	}

	for _, child := range proc.ChildElements() {
		if !schema.IsModel(child, child.Tag) {
			m.diag.warn(CodeUnknownElement, child.FullTag(), "foreign element inside process %s", processID)
			continue
		}
		switch child.Tag {
		case schema.LaneSet, schema.Documentation, "extensionElements":
			continue
		case schema.SequenceFlow:
			m.flows = append(m.flows, child)
			continue
		case schema.DataObject:
			if id, _ := getAttr(child.Attr, schema.AttrID); id != "" {
				if _, ok := referenced[id]; ok {
					continue
				}
			}
		}
		if _, ok := deserializers[child.Tag]; !ok {
			m.diag.warn(CodeUnknownElement, child.FullTag(), "element is not supported")
			continue
		}

		n, err := m.deserialize(child)
		if err != nil {
			return fmt.Errorf("process %s: %w", processID, err)
		}
		m.place(n, participant, box)
		n.Metadata.ProcessID = processID
		n.Metadata.Executable = executable

		owner := ""
		if participant != nil {
			owner = participant.ID
			n.LaneID = laneOf[n.ID]
		}
		m.addNode(n, owner)
	}
	return nil
}

// place positions a node from its shape, or on a default row when the
// diagram section does not draw it. Nodes owned by a participant become
// relative to it and are kept clear of its header and lane gutter.
func (m *importer) place(n *graph.Node, participant *graph.Node, box graph.Bounds) {
	var abs graph.AbsPoint
	if info, ok := m.decorate(&n.Metadata, n.ID); ok {
		abs = info.Bounds.Origin()
	} else {
		m.placed++
		abs = graph.AbsPoint{X: elementX + float64(m.placed*elementStride), Y: elementY}
	}

	if participant == nil {
		n.Position = nonNegative(graph.Point{X: abs.X, Y: abs.Y})
		return
	}
	n.ParentID = participant.ID
	n.Position = graph.ClampToParent(graph.ToRelative(abs, box.Origin()))
}

// readLanes turns the lane sets of a process, nested ones included, into lane
// nodes and returns the lane of every referenced flow node. Later lanes win
// when a node is listed twice.
func (m *importer) readLanes(proc *etree.Element, participant *graph.Node, box graph.Bounds) map[string]string {
	laneOf := map[string]string{}
	index := 0

	var walk func(set *etree.Element)
	walk = func(set *etree.Element) {
		for _, el := range schema.ModelChildren(set, schema.Lane) {
			id, _ := getAttr(el.Attr, schema.AttrID)
			if id == "" {
				id = m.generateID(el.Tag)
			}
			if participant == nil {
				m.diag.warn(CodeOrphanLane, id, "lane belongs to a process without participant")
			} else {
				m.readLane(el, id, participant, box, index)
				index++
				for _, ref := range schema.ModelChildren(el, schema.FlowNodeRef) {
					laneOf[schema.TextOf(ref)] = id
				}
			}
			for _, child := range schema.ModelChildren(el, schema.ChildLaneSet) {
				walk(child)
			}
		}
	}
	for _, set := range schema.ModelChildren(proc, schema.LaneSet) {
		walk(set)
	}

	// a dropped duplicate lane must not own anything
	for ref, lane := range laneOf {
		if n, ok := m.nodes[lane]; !ok || n.Kind != graph.KindLane {
			delete(laneOf, ref)
		}
	}
	return laneOf
}

func (m *importer) readLane(el *etree.Element, id string, participant *graph.Node, box graph.Bounds, index int) {
	name, _ := getAttr(el.Attr, schema.AttrName)
	if name == "" {
		name = graph.KindLane.DefaultLabel()
	}

	lane := &graph.Node{
		ID:       id,
		Kind:     graph.KindLane,
		Label:    name,
		ParentID: participant.ID,
		Position: graph.Point{X: laneX, Y: laneY + float64(index*laneHeight)},
		Size:     &graph.Size{Width: box.Width - laneInset, Height: laneHeight},
	}
	if info, ok := m.decorate(&lane.Metadata, id); ok {
		lane.Position = nonNegative(graph.ToRelative(info.Bounds.Origin(), box.Origin()))
		size := info.Bounds.Size()
		lane.Size = &size
	}
	if lane.Size.Width < 0 {
		lane.Size.Width = 0
	}
	lane.Metadata.Attributes = readAttributes(el)
	lane.Metadata.Documentation = readDocumentation(el)
	m.addNode(lane, participant.ID)
}

func (m *importer) newEdge(el *etree.Element, kind graph.FlowKind) (*graph.Edge, bool) {
	id, _ := getAttr(el.Attr, schema.AttrID)
	if id == "" {
		id = m.generateID(el.Tag)
	}
	source, _ := getAttr(el.Attr, schema.AttrSourceRef)
	target, _ := getAttr(el.Attr, schema.AttrTargetRef)

	for _, ref := range []string{source, target} {
		if _, ok := m.nodes[ref]; !ok {
			m.diag.warn(CodeMissingReference, id, "%s endpoint %q not found, skipped", kind, ref)
			return nil, false
		}
	}

	name, _ := getAttr(el.Attr, schema.AttrName)
	e := &graph.Edge{ID: id, Source: source, Target: target, Label: name, FlowKind: kind}
	e.Metadata.Attributes = readAttributes(el)
	e.Metadata.Documentation = readDocumentation(el)
	if info, ok := m.edges.Get(id); ok {
		e.Metadata.ShapeID = info.ID
		e.Metadata.LabelBounds = info.Label
		if len(info.Waypoints) > 0 {
			e.Metadata.Waypoints = info.Waypoints
		}
	}
	return e, true
}

func (m *importer) readSequenceFlows() {
	for _, el := range m.flows {
		e, ok := m.newEdge(el, graph.SequenceFlow)
		if !ok {
			continue
		}
		if m.owners[e.Source] != m.owners[e.Target] {
			m.diag.warn(CodeInconsistentFlow, e.ID, "sequence flow connects %q and %q owned by different participants", e.Source, e.Target)
			continue
		}
		m.addEdge(e)
	}
}

func (m *importer) readMessageFlows(collaboration *etree.Element) {
	for _, el := range schema.ModelChildren(collaboration, schema.MessageFlow) {
		e, ok := m.newEdge(el, graph.MessageFlow)
		if !ok {
			continue
		}
		if m.owners[e.Source] == m.owners[e.Target] {
			m.diag.warn(CodeDroppedMessageFlow, e.ID, "message flow ends share owner %q", m.owners[e.Source])
			continue
		}
		m.addEdge(e)
	}
}

func nonNegative(p graph.Point) graph.Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}
