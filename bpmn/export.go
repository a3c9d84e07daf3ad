package bpmn

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/bpmnkit/graph"
	"github.com/vine-io/bpmnkit/schema"
)

// Export writes g as an indented BPMN 2.0 document. The graph is never
// modified. Warnings go to the Reporter given with WithReporter.
func Export(g *graph.Graph, opts ...Option) (string, error) {
	options := NewOptions(opts...)
	if g == nil {
		g = graph.New(nil, nil)
	}

	x := newExporter(g, options)
	doc, err := x.build()
	if err != nil {
		return "", err
	}

	if options.Indent < 0 {
		doc.Indent(etree.NoIndent)
	} else {
		doc.Indent(options.Indent)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("write bpmn document: %w", err)
	}

	if options.SelfCheck {
		x.selfCheck(out)
	}
	log.Debugf("bpmn: exported %d nodes and %d edges with %d warnings", len(g.Nodes), len(g.Edges), len(x.diag.warnings))

	return out, nil
}

type exporter struct {
	opts *Options
	g    *graph.Graph
	res  *graph.Resolver
	diag *diagnostics

	participants []*graph.Node
	lanes        []*graph.Node
	regular      []*graph.Node

	sequence []*graph.Edge
	message  []*graph.Edge

	// written holds the ids of every node and edge present in a process or
	// the collaboration.
	written  map[string]struct{}
	incoming map[string][]string
	outgoing map[string][]string
}

func newExporter(g *graph.Graph, opts *Options) *exporter {
	x := &exporter{
		opts:     opts,
		diag:     newDiagnostics(opts.Reporter),
		written:  map[string]struct{}{},
		incoming: map[string][]string{},
		outgoing: map[string][]string{},
	}
	x.g = x.usable(g)
	x.res = x.g.Resolver()
	return x
}

// usable drops the entries that have no BPMN element: empty slots and nodes
// of an unknown kind.
func (x *exporter) usable(g *graph.Graph) *graph.Graph {
	nodes := make([]*graph.Node, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		switch {
		case n == nil:
			x.diag.warn(CodeUnknownElement, "", "node %d is empty, skipped", i)
		case !n.Kind.Valid():
			x.diag.warn(CodeUnknownElement, n.ID, "%s can not be exported, skipped", n.Kind)
		default:
			nodes = append(nodes, n)
		}
	}

	edges := make([]*graph.Edge, 0, len(g.Edges))
	for i, e := range g.Edges {
		if e == nil {
			x.diag.warn(CodeUnknownElement, "", "edge %d is empty, skipped", i)
			continue
		}
		edges = append(edges, e)
	}
	return graph.New(nodes, edges)
}

func (x *exporter) build() (*etree.Document, error) {
	doc, root := schema.NewDocument(x.opts.DefinitionsID, Exporter, ExporterVersion)
	x.partition()

	var plane string
	collaboration := len(x.participants) > 0
	if collaboration {
		plane = x.collaborationID()
		if err := x.writeCollaboration(root, plane); err != nil {
			return nil, err
		}
	} else {
		plane = x.flatProcessID()
		if err := x.writeFlatProcess(root, plane); err != nil {
			return nil, err
		}
	}

	x.writeDiagram(root, plane, collaboration)
	return doc, nil
}

func (x *exporter) partition() {
	for _, n := range x.g.Nodes {
		switch n.Kind {
		case graph.KindParticipant:
			x.participants = append(x.participants, n)
		case graph.KindLane:
			x.lanes = append(x.lanes, n)
		default:
			x.regular = append(x.regular, n)
		}
	}

	for _, e := range x.g.Edges {
		if e.IsMessage() {
			x.message = append(x.message, e)
		} else {
			x.sequence = append(x.sequence, e)
		}
	}
}

func (x *exporter) collaborationID() string {
	for _, p := range x.participants {
		if p.Metadata.CollaborationID != "" {
			return p.Metadata.CollaborationID
		}
	}
	if x.opts.CollaborationID != "" {
		return x.opts.CollaborationID
	}
	return "Collaboration_" + randName()
}

func (x *exporter) flatProcessID() string {
	if len(x.regular) > 0 && x.regular[0].Metadata.ProcessID != "" {
		return x.regular[0].Metadata.ProcessID
	}
	return x.opts.ProcessID
}

func processRef(p *graph.Node) string {
	if p.ProcessRef != "" {
		return p.ProcessRef
	}
	return "Process_" + p.ID
}

// resolvable reports whether both ends of e exist, warning otherwise.
func (x *exporter) resolvable(e *graph.Edge) bool {
	for _, ref := range []string{e.Source, e.Target} {
		if _, ok := x.res.Node(ref); !ok {
			x.diag.warn(CodeMissingReference, e.ID, "endpoint %q does not exist", ref)
			return false
		}
	}
	return true
}

// routeFlows selects the sequence flows written into processes and indexes
// them as incoming and outgoing references of their ends.
func (x *exporter) routeFlows(keep func(e *graph.Edge) bool) []*graph.Edge {
	out := make([]*graph.Edge, 0, len(x.sequence))
	for _, e := range x.sequence {
		if !x.resolvable(e) || !keep(e) {
			continue
		}
		out = append(out, e)
		x.outgoing[e.Source] = append(x.outgoing[e.Source], e.ID)
		x.incoming[e.Target] = append(x.incoming[e.Target], e.ID)
	}
	return out
}

func (x *exporter) writeRefs(start *etree.Element, id string, incoming, outgoing bool) {
	if incoming {
		for _, ref := range x.incoming[id] {
			start.CreateElement(schema.Model(schema.Incoming)).SetText(ref)
		}
	}
	if outgoing {
		for _, ref := range x.outgoing[id] {
			start.CreateElement(schema.Model(schema.Outgoing)).SetText(ref)
		}
	}
}

func (x *exporter) writeCollaboration(root *etree.Element, id string) error {
	owned := map[string][]*graph.Node{}
	for _, n := range x.regular {
		owner := x.res.OwnerID(n.ID)
		if owner == "" {
			x.diag.warn(CodeOrphanNode, n.ID, "no participant owns this %s, left out of every process", n.Kind)
			continue
		}
		owned[owner] = append(owned[owner], n)
	}
	for _, lane := range x.lanes {
		if parent, ok := x.res.Node(lane.ParentID); !ok || parent.Kind != graph.KindParticipant {
			x.diag.warn(CodeOrphanLane, lane.ID, "lane is not inside a participant")
		}
	}

	flows := x.routeFlows(func(e *graph.Edge) bool {
		if x.res.OwnerID(e.Source) == "" {
			x.diag.warn(CodeOrphanNode, e.ID, "source %s has no participant, flow left out", e.Source)
			return false
		}
		return true
	})

	collab := root.CreateElement(schema.Model(schema.Collaboration))
	collab.CreateAttr(schema.AttrID, id)
	for _, p := range x.participants {
		el := collab.CreateElement(schema.Model(schema.Participant))
		el.CreateAttr(schema.AttrID, p.ID)
		el.CreateAttr(schema.AttrName, p.Label)
		el.CreateAttr(schema.AttrProcessRef, processRef(p))
		writeAttributes(el, p.Metadata.Attributes)
		writeDocumentation(el, p.Documentation, p.Metadata.Documentation)
		x.written[p.ID] = struct{}{}
	}
	for _, e := range x.message {
		if !x.resolvable(e) {
			continue
		}
		x.writeFlow(collab, schema.MessageFlow, e)
	}

	for _, p := range x.participants {
		if err := x.writeParticipantProcess(root, p, owned[p.ID], flows); err != nil {
			return err
		}
	}
	return nil
}

func (x *exporter) writeParticipantProcess(root *etree.Element, p *graph.Node, nodes []*graph.Node, flows []*graph.Edge) error {
	executable := p.Metadata.Executable
	if executable == "" && len(nodes) > 0 {
		executable = nodes[0].Metadata.Executable
	}
	if executable == "" {
		executable = "false"
	}

	proc := root.CreateElement(schema.Model(schema.Process))
	proc.CreateAttr(schema.AttrID, processRef(p))
	proc.CreateAttr(schema.AttrName, p.Label)
	proc.CreateAttr(schema.AttrExecutable, executable)
	writeAttributes(proc, p.Metadata.ProcessAttributes)
	writeDocumentation(proc, "", p.Metadata.ProcessDocumentation)

	if lanes := x.g.LanesOf(p.ID); len(lanes) > 0 {
		set := proc.CreateElement(schema.Model(schema.LaneSet))
		set.CreateAttr(schema.AttrID, p.ID+"_laneset")
		for _, lane := range lanes {
			el := set.CreateElement(schema.Model(schema.Lane))
			el.CreateAttr(schema.AttrID, lane.ID)
			if lane.Name != "" {
				el.CreateAttr(schema.AttrName, lane.Name)
			}
			if n, ok := x.res.Node(lane.ID); ok {
				writeAttributes(el, n.Metadata.Attributes)
				writeDocumentation(el, n.Documentation, n.Metadata.Documentation)
			}
			for _, n := range nodes {
				if n.LaneID == lane.ID {
					el.CreateElement(schema.Model(schema.FlowNodeRef)).SetText(n.ID)
				}
			}
			x.written[lane.ID] = struct{}{}
		}
	}

	for _, n := range nodes {
		if err := x.serialize(n, proc); err != nil {
			return err
		}
		x.written[n.ID] = struct{}{}
	}
	for _, e := range flows {
		if x.res.OwnerID(e.Source) == p.ID {
			x.writeFlow(proc, schema.SequenceFlow, e)
		}
	}
	return nil
}

func (x *exporter) writeFlatProcess(root *etree.Element, id string) error {
	executable := "false"
	if len(x.regular) > 0 && x.regular[0].Metadata.Executable != "" {
		executable = x.regular[0].Metadata.Executable
	}
	for _, lane := range x.lanes {
		x.diag.warn(CodeOrphanLane, lane.ID, "lane without a participant is not exported")
	}
	for _, e := range x.message {
		x.diag.warn(CodeDroppedMessageFlow, e.ID, "no participants, message flow has no collaboration")
	}

	flows := x.routeFlows(func(*graph.Edge) bool { return true })

	proc := root.CreateElement(schema.Model(schema.Process))
	proc.CreateAttr(schema.AttrID, id)
	proc.CreateAttr(schema.AttrExecutable, executable)
	for _, n := range x.regular {
		if err := x.serialize(n, proc); err != nil {
			return err
		}
		x.written[n.ID] = struct{}{}
	}
	for _, e := range flows {
		x.writeFlow(proc, schema.SequenceFlow, e)
	}
	return nil
}

func (x *exporter) writeFlow(parent *etree.Element, tag string, e *graph.Edge) {
	el := parent.CreateElement(schema.Model(tag))
	el.CreateAttr(schema.AttrID, e.ID)
	if e.Label != "" {
		el.CreateAttr(schema.AttrName, e.Label)
	}
	el.CreateAttr(schema.AttrSourceRef, e.Source)
	el.CreateAttr(schema.AttrTargetRef, e.Target)
	writeAttributes(el, e.Metadata.Attributes)
	writeDocumentation(el, e.Documentation, e.Metadata.Documentation)
	x.written[e.ID] = struct{}{}
}

// selfCheck reads the document back and reports structural problems. It
// never changes the output.
func (x *exporter) selfCheck(out string) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		x.diag.warn(CodeSerializationWarning, "", "output is not well-formed: %v", err)
		return
	}
	root := doc.Root()
	if root == nil || !schema.IsModel(root, schema.Definitions) {
		x.diag.warn(CodeSerializationWarning, "", "output has no definitions root")
		return
	}

	ids := map[string]struct{}{}
	refs := make([]*etree.Element, 0)
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if id, ok := getAttr(child.Attr, schema.AttrID); ok {
				if _, dup := ids[id]; dup {
					x.diag.warn(CodeSerializationWarning, id, "id is used by more than one element")
				}
				ids[id] = struct{}{}
			}
			if _, ok := getAttr(child.Attr, schema.AttrBPMNElement); ok {
				refs = append(refs, child)
			}
			walk(child)
		}
	}
	walk(root)

	for _, el := range refs {
		ref, _ := getAttr(el.Attr, schema.AttrBPMNElement)
		if _, ok := ids[ref]; !ok {
			x.diag.warn(CodeSerializationWarning, ref, "%s points at a missing element", el.Tag)
		}
	}
}

func isDataAssociation(source, target *graph.Node) bool {
	return source.Kind.IsDataObject() || target.Kind.IsDataObject()
}

func hasLabel(s string) bool {
	return strings.TrimSpace(s) != ""
}
