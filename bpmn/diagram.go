package bpmn

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/vine-io/bpmnkit/graph"
	"github.com/vine-io/bpmnkit/schema"
)

const (
	labelGap    = 5
	labelHeight = 40
	labelWidth  = 100
)

func shapeID(id string, md graph.Metadata) string {
	if md.ShapeID != "" {
		return md.ShapeID
	}
	return id + "_di"
}

// writeDiagram emits the interchange section: a shape per written node and an
// edge per written connector that is not a data association.
func (x *exporter) writeDiagram(root *etree.Element, element string, collaboration bool) {
	diagramID, planeID := "BPMNDiagram_1", "BPMNPlane_1"
	if collaboration {
		base := strings.TrimPrefix(element, "Collaboration_")
		diagramID, planeID = "Diagram_"+base, "Plane_"+base
	}

	diagram := root.CreateElement(schema.Diagram(schema.BPMNDiagram))
	diagram.CreateAttr(schema.AttrID, diagramID)
	plane := diagram.CreateElement(schema.Diagram(schema.BPMNPlane))
	plane.CreateAttr(schema.AttrID, planeID)
	plane.CreateAttr(schema.AttrBPMNElement, element)

	for _, n := range x.g.Nodes {
		if _, ok := x.written[n.ID]; !ok {
			continue
		}
		x.writeShape(plane, n)
	}
	for _, e := range x.g.Edges {
		if _, ok := x.written[e.ID]; !ok {
			continue
		}
		x.writeEdge(plane, e)
	}
}

func (x *exporter) writeShape(plane *etree.Element, n *graph.Node) {
	shape := plane.CreateElement(schema.Diagram(schema.BPMNShape))
	shape.CreateAttr(schema.AttrID, shapeID(n.ID, n.Metadata))
	shape.CreateAttr(schema.AttrBPMNElement, n.ID)
	if n.Kind.IsContainer() {
		shape.CreateAttr(schema.AttrIsHorizontal, "true")
	}

	b := x.res.AbsBounds(n)
	schema.WriteBounds(shape, b, false)

	if !hasLabel(n.Label) || n.Kind.IsContainer() || n.Kind == graph.KindTextAnnotation {
		return
	}
	label := graph.Bounds{X: b.X, Y: b.Y + b.Height + labelGap, Width: b.Width, Height: labelHeight}
	if lb := n.Metadata.LabelBounds; lb != nil {
		label = *lb
	}
	schema.WriteLabel(shape, label, false)
}

func (x *exporter) writeEdge(plane *etree.Element, e *graph.Edge) {
	source, _ := x.res.Node(e.Source)
	target, _ := x.res.Node(e.Target)
	if isDataAssociation(source, target) {
		x.diag.warn(CodeSkippedDataAssociation, e.ID, "data association is not drawn")
		return
	}

	edge := plane.CreateElement(schema.Diagram(schema.BPMNEdge))
	edge.CreateAttr(schema.AttrID, shapeID(e.ID, e.Metadata))
	edge.CreateAttr(schema.AttrBPMNElement, e.ID)

	var mid graph.AbsPoint
	if wps := e.Metadata.Waypoints; len(wps) >= 2 {
		for _, wp := range wps {
			schema.WriteWaypoint(edge, wp)
		}
		mid = wps[len(wps)/2]
	} else {
		from := x.res.AbsBounds(source).Center()
		to := x.res.AbsBounds(target).Center()
		schema.WriteWaypoint(edge, from)
		schema.WriteWaypoint(edge, to)
		mid = graph.AbsPoint{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
	}

	if !hasLabel(e.Label) {
		return
	}
	label := graph.Bounds{
		X:      schema.Round(mid.X) - labelWidth/2,
		Y:      schema.Round(mid.Y) - 10,
		Width:  labelWidth,
		Height: labelHeight,
	}
	if lb := e.Metadata.LabelBounds; lb != nil {
		label = *lb
	}
	schema.WriteLabel(edge, label, true)
}
