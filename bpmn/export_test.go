package bpmn

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/vine-io/bpmnkit/graph"
	"github.com/vine-io/bpmnkit/schema"
)

func flatProcess() *graph.Graph {
	return graph.New([]*graph.Node{
		{ID: "S1", Kind: graph.KindStartEvent, Label: "Start", Position: graph.Point{X: 100, Y: 100}},
		{ID: "T1", Kind: graph.KindTask, Label: "Work", Position: graph.Point{X: 200, Y: 78}},
		{ID: "E1", Kind: graph.KindEndEvent, Position: graph.Point{X: 350, Y: 100}},
	}, []*graph.Edge{
		{ID: "F1", Source: "S1", Target: "T1", FlowKind: graph.SequenceFlow},
		{ID: "F2", Source: "T1", Target: "E1", Label: "done", FlowKind: graph.SequenceFlow},
	})
}

func twoPools() *graph.Graph {
	g := graph.New([]*graph.Node{
		{ID: "P1", Kind: graph.KindParticipant, Label: "Customer", Position: graph.Point{X: 50, Y: 50}, Size: &graph.Size{Width: 910, Height: 250}},
		{ID: "L1", Kind: graph.KindLane, Label: "Front", ParentID: "P1", Position: graph.Point{X: 30, Y: 125}, Size: &graph.Size{Width: 880, Height: 125}},
		{ID: "L2", Kind: graph.KindLane, Label: "Back", ParentID: "P1", Position: graph.Point{X: 30, Y: 0}, Size: &graph.Size{Width: 880, Height: 125}},
		{ID: "T1", Kind: graph.KindTask, Label: "Order", ParentID: "P1", LaneID: "L2", Position: graph.Point{X: 100, Y: 40}},
		{ID: "S1", Kind: graph.KindStartEvent, Label: "Hungry", ParentID: "P1", LaneID: "L1", Position: graph.Point{X: 100, Y: 160}},
		{ID: "P2", Kind: graph.KindParticipant, Label: "Shop", Position: graph.Point{X: 50, Y: 330}},
		{ID: "T2", Kind: graph.KindTask, Label: "Bake", ParentID: "P2", Position: graph.Point{X: 100, Y: 40}},
	}, []*graph.Edge{})

	_, _ = g.Connect("F1", "S1", "T1", "")
	_, _ = g.Connect("M1", "T1", "T2", "order")
	return g
}

func parse(t *testing.T, out string) *etree.Element {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		t.Fatalf("exported document is not well-formed: %v", err)
	}
	return doc.Root()
}

// byID finds the element with the given id anywhere below root.
func byID(root *etree.Element, id string) *etree.Element {
	return root.FindElement(".//*[@id='" + id + "']")
}

func texts(els []*etree.Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.Text())
	}
	return out
}

func collect(warnings *[]Warning) Option {
	return WithReporter(ReporterFunc(func(w Warning) {
		*warnings = append(*warnings, w)
	}))
}

func TestExportFlatProcess(t *testing.T) {
	out, err := Export(flatProcess())
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)

	assert.Equal(t, "definitions", root.Tag)
	assert.Nil(t, schema.FindModel(root, schema.Collaboration))

	processes := schema.ModelChildren(root, schema.Process)
	if !assert.Len(t, processes, 1) {
		return
	}
	proc := processes[0]
	assert.Equal(t, DefaultProcessID, proc.SelectAttrValue("id", ""))
	assert.Equal(t, "false", proc.SelectAttrValue("isExecutable", ""))

	start := byID(root, "S1")
	assert.Equal(t, "startEvent", start.Tag)
	assert.Equal(t, []string{"F1"}, texts(schema.ModelChildren(start, schema.Outgoing)))
	assert.Empty(t, schema.ModelChildren(start, schema.Incoming))

	task := byID(root, "T1")
	assert.Equal(t, []string{"F1"}, texts(schema.ModelChildren(task, schema.Incoming)))
	assert.Equal(t, []string{"F2"}, texts(schema.ModelChildren(task, schema.Outgoing)))

	end := byID(root, "E1")
	assert.Nil(t, end.SelectAttr("name"))

	assert.Len(t, schema.FindDiagram(root, schema.BPMNShape), 3)
	assert.Len(t, schema.FindDiagram(root, schema.BPMNEdge), 2)

	plane := schema.FindDiagram(root, schema.BPMNPlane)[0]
	assert.Equal(t, DefaultProcessID, plane.SelectAttrValue("bpmnElement", ""))
}

func TestExportShapesAndWaypoints(t *testing.T) {
	out, err := Export(flatProcess())
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)

	shape := byID(root, "T1_di")
	bounds, ok := schema.ReadShapeBounds(shape)
	assert.True(t, ok)
	assert.Equal(t, graph.Bounds{X: 200, Y: 78, Width: 100, Height: 80}, bounds)

	label, ok := schema.ReadLabelBounds(shape)
	assert.True(t, ok)
	assert.Equal(t, graph.Bounds{X: 200, Y: 163, Width: 100, Height: 40}, *label)

	// unlabelled nodes get no label box
	_, ok = schema.ReadLabelBounds(byID(root, "E1_di"))
	assert.False(t, ok)

	edge := byID(root, "F2_di")
	assert.Equal(t, []graph.AbsPoint{{X: 250, Y: 118}, {X: 368, Y: 118}}, schema.ReadWaypoints(edge))
	label, ok = schema.ReadLabelBounds(edge)
	assert.True(t, ok)
	assert.Equal(t, graph.Bounds{X: 259, Y: 108, Width: 100, Height: 40}, *label)
}

func TestExportCollaboration(t *testing.T) {
	out, err := Export(twoPools(), WithCollaborationID("Collaboration_test"))
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)

	collab := schema.FindModel(root, schema.Collaboration)
	if !assert.NotNil(t, collab) {
		return
	}
	assert.Equal(t, "Collaboration_test", collab.SelectAttrValue("id", ""))

	participants := schema.ModelChildren(collab, schema.Participant)
	if !assert.Len(t, participants, 2) {
		return
	}
	assert.Equal(t, "Process_P1", participants[0].SelectAttrValue("processRef", ""))
	assert.Equal(t, "Shop", participants[1].SelectAttrValue("name", ""))

	flows := schema.ModelChildren(collab, schema.MessageFlow)
	if !assert.Len(t, flows, 1) {
		return
	}
	assert.Equal(t, "T1", flows[0].SelectAttrValue("sourceRef", ""))
	assert.Equal(t, "T2", flows[0].SelectAttrValue("targetRef", ""))

	processes := schema.ModelChildren(root, schema.Process)
	if !assert.Len(t, processes, 2) {
		return
	}
	p1 := processes[0]
	assert.Equal(t, "Process_P1", p1.SelectAttrValue("id", ""))
	assert.Equal(t, "Customer", p1.SelectAttrValue("name", ""))

	sets := schema.ModelChildren(p1, schema.LaneSet)
	if !assert.Len(t, sets, 1) {
		return
	}
	assert.Equal(t, "P1_laneset", sets[0].SelectAttrValue("id", ""))
	lanes := schema.ModelChildren(sets[0], schema.Lane)
	if !assert.Len(t, lanes, 2) {
		return
	}
	// ordered by their offset inside the participant
	assert.Equal(t, "L2", lanes[0].SelectAttrValue("id", ""))
	assert.Equal(t, []string{"T1"}, texts(schema.ModelChildren(lanes[0], schema.FlowNodeRef)))
	assert.Equal(t, []string{"S1"}, texts(schema.ModelChildren(lanes[1], schema.FlowNodeRef)))

	assert.Len(t, schema.ModelChildren(p1, schema.SequenceFlow), 1)
	assert.NotNil(t, byID(p1, "T1"))
	assert.Nil(t, byID(p1, "T2"))
	assert.NotNil(t, byID(processes[1], "T2"))

	plane := schema.FindDiagram(root, schema.BPMNPlane)[0]
	assert.Equal(t, "Collaboration_test", plane.SelectAttrValue("bpmnElement", ""))
	assert.Equal(t, "Plane_test", plane.SelectAttrValue("id", ""))
	assert.Equal(t, "true", byID(root, "P1_di").SelectAttrValue("isHorizontal", ""))
	assert.Equal(t, "true", byID(root, "L1_di").SelectAttrValue("isHorizontal", ""))

	// T1 sits at (100,40) inside P1 at (50,50)
	bounds, _ := schema.ReadShapeBounds(byID(root, "T1_di"))
	assert.Equal(t, graph.Bounds{X: 150, Y: 90, Width: 100, Height: 80}, bounds)
	// lanes are offset from their participant as well
	bounds, _ = schema.ReadShapeBounds(byID(root, "L1_di"))
	assert.Equal(t, graph.Bounds{X: 80, Y: 175, Width: 880, Height: 125}, bounds)
}

func TestExportDoesNotModifyGraph(t *testing.T) {
	g := twoPools()
	g.Nodes[3].Metadata.Attributes = graph.Attributes{{Name: "custom", Value: "1"}}
	before := g.Clone()

	_, err := Export(g)
	if !assert.NoError(t, err) {
		return
	}
	assert.Empty(t, cmp.Diff(before, g))
}

func TestExportEmptyGraph(t *testing.T) {
	for _, g := range []*graph.Graph{nil, graph.New(nil, nil)} {
		out, err := Export(g)
		if !assert.NoError(t, err) {
			return
		}
		root := parse(t, out)
		assert.Len(t, schema.ModelChildren(root, schema.Process), 1)
		assert.Empty(t, schema.FindDiagram(root, schema.BPMNShape))
	}
}

func TestExportPreservedMetadata(t *testing.T) {
	g := flatProcess()
	task := g.Nodes[1]
	task.Documentation = "Edited"
	task.Metadata.Documentation = []string{"Kept", ""}
	task.Metadata.Attributes = graph.Attributes{
		{Name: "camunda:asyncBefore", Value: "true"},
		{Name: "id", Value: "ignored"},
		{Name: "xmlns:camunda", Value: "http://camunda.org/schema/1.0/bpmn"},
	}
	task.Metadata.ShapeID = "Activity_0x_di"
	task.Metadata.Bounds = &graph.Bounds{X: 210.5, Y: 80, Width: 120, Height: 90}

	out, err := Export(g)
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)

	el := byID(root, "T1")
	if !assert.NotNil(t, el) {
		return
	}
	assert.Equal(t, "true", el.SelectAttrValue("camunda:asyncBefore", ""))
	assert.Equal(t, "http://camunda.org/schema/1.0/bpmn", el.SelectAttrValue("xmlns:camunda", ""))
	assert.Equal(t, []string{"Edited", "Kept"}, texts(schema.ModelChildren(el, schema.Documentation)))

	shape := byID(root, "Activity_0x_di")
	if !assert.NotNil(t, shape) {
		return
	}
	bounds, _ := schema.ReadShapeBounds(shape)
	assert.Equal(t, graph.Bounds{X: 210.5, Y: 80, Width: 120, Height: 90}, bounds)
	assert.Contains(t, out, `x="210.5"`)
}

func TestExportDataObject(t *testing.T) {
	g := flatProcess()
	g.Nodes = append(g.Nodes, &graph.Node{ID: "D1", Kind: graph.KindDataObject, Label: "Invoice", Position: graph.Point{X: 200, Y: 250}})
	g.Edges = append(g.Edges, &graph.Edge{ID: "A1", Source: "T1", Target: "D1", FlowKind: graph.SequenceFlow})

	var warnings []Warning
	out, err := Export(g, collect(&warnings))
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)

	ref := byID(root, "D1")
	assert.Equal(t, "dataObjectReference", ref.Tag)
	assert.Equal(t, "DataObject_D1", ref.SelectAttrValue("dataObjectRef", ""))
	object := byID(root, "DataObject_D1")
	assert.Equal(t, "dataObject", object.Tag)
	assert.Equal(t, "Invoice", object.SelectAttrValue("name", ""))

	assert.Nil(t, byID(root, "A1_di"))
	assert.Equal(t, 1, Count(warnings, CodeSkippedDataAssociation))
	assert.Zero(t, Count(warnings, CodeSerializationWarning))
}

func TestExportAnnotationAndGroup(t *testing.T) {
	g := graph.New([]*graph.Node{
		{ID: "N1", Kind: graph.KindTextAnnotation, Label: "Remember the receipt", Position: graph.Point{X: 10, Y: 10}},
		{ID: "G1", Kind: graph.KindGroup, Position: graph.Point{X: 0, Y: 0}},
	}, nil)

	out, err := Export(g)
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)

	note := byID(root, "N1")
	assert.Nil(t, note.SelectAttr("name"))
	assert.Equal(t, []string{"Remember the receipt"}, texts(schema.ModelChildren(note, schema.Text)))
	_, ok := schema.ReadLabelBounds(byID(root, "N1_di"))
	assert.False(t, ok)

	group := byID(root, "G1")
	assert.Equal(t, "group", group.Tag)
	assert.Nil(t, group.SelectAttr("name"))
}

func TestExportWarnings(t *testing.T) {
	t.Run("missing reference", func(t *testing.T) {
		g := flatProcess()
		g.Edges = append(g.Edges, &graph.Edge{ID: "F9", Source: "T1", Target: "Nope"})

		var warnings []Warning
		out, err := Export(g, collect(&warnings))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, 1, Count(warnings, CodeMissingReference))
		assert.NotContains(t, out, `"F9"`)
		assert.Equal(t, []string{"F2"}, texts(schema.ModelChildren(byID(parse(t, out), "T1"), schema.Outgoing)))
	})

	t.Run("message flow without participants", func(t *testing.T) {
		g := flatProcess()
		g.Edges = append(g.Edges, &graph.Edge{ID: "M1", Source: "S1", Target: "E1", FlowKind: graph.MessageFlow})

		var warnings []Warning
		out, err := Export(g, collect(&warnings))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, 1, Count(warnings, CodeDroppedMessageFlow))
		assert.Nil(t, byID(parse(t, out), "M1"))
	})

	t.Run("orphans next to participants", func(t *testing.T) {
		g := twoPools()
		g.Nodes = append(g.Nodes, &graph.Node{ID: "X1", Kind: graph.KindTask, Position: graph.Point{X: 5, Y: 5}})
		g.Edges = append(g.Edges, &graph.Edge{ID: "FX", Source: "X1", Target: "T1"})

		var warnings []Warning
		out, err := Export(g, collect(&warnings))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, 2, Count(warnings, CodeOrphanNode))
		root := parse(t, out)
		assert.Nil(t, byID(root, "X1"))
		assert.Nil(t, byID(root, "X1_di"))
		assert.Nil(t, byID(root, "FX"))
		assert.Zero(t, Count(warnings, CodeSerializationWarning))
	})

	t.Run("lanes without participants", func(t *testing.T) {
		g := flatProcess()
		g.Nodes = append(g.Nodes, &graph.Node{ID: "L9", Kind: graph.KindLane})

		var warnings []Warning
		_, err := Export(g, collect(&warnings))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, 1, Count(warnings, CodeOrphanLane))
	})

	t.Run("empty and untyped entries", func(t *testing.T) {
		g := flatProcess()
		g.Nodes = append(g.Nodes, nil, &graph.Node{ID: "X2", Position: graph.Point{X: 5, Y: 5}})
		g.Edges = append(g.Edges, nil)

		var warnings []Warning
		out, err := Export(g, collect(&warnings))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, 3, Count(warnings, CodeUnknownElement))
		assert.Contains(t, warnings[1].Message, "Kind(0)")
		root := parse(t, out)
		assert.Nil(t, byID(root, "X2"))
		assert.NotNil(t, byID(root, "T1"))
		assert.Len(t, g.Nodes, 5)
	})
}

func TestExportIndent(t *testing.T) {
	out, err := Export(flatProcess(), WithIndent(4))
	if !assert.NoError(t, err) {
		return
	}
	assert.Contains(t, out, "\n    <bpmn:process")
	assert.Contains(t, out, "<bpmn:outgoing>F1</bpmn:outgoing>")

	out, err = Export(flatProcess(), WithIndent(-1))
	if !assert.NoError(t, err) {
		return
	}
	assert.NotContains(t, strings.TrimSpace(out), "\n")
}

func TestExportIDs(t *testing.T) {
	out, err := Export(twoPools(), WithDefinitionsID("Definitions_x"))
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)
	assert.Equal(t, "Definitions_x", root.SelectAttrValue("id", ""))

	// collaboration ids are random unless remembered or configured
	id := schema.FindModel(root, schema.Collaboration).SelectAttrValue("id", "")
	assert.True(t, strings.HasPrefix(id, "Collaboration_"))

	out, err = Export(flatProcess(), WithProcessID("Process_main"))
	if !assert.NoError(t, err) {
		return
	}
	assert.NotNil(t, byID(parse(t, out), "Process_main"))
}
