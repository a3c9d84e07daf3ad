package schema

import (
	"math"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/vine-io/bpmnkit/graph"
)

var half = decimal.NewFromFloat(0.5)

// FormatNumber writes a coordinate in its shortest exact decimal form.
func FormatNumber(v float64) string {
	return finite(v).String()
}

// FormatRounded rounds half up to an integer before writing.
func FormatRounded(v float64) string {
	return finite(v).Add(half).Floor().String()
}

// Round rounds half up, the rule used for connector geometry.
func Round(v float64) float64 {
	f, _ := finite(v).Add(half).Floor().Float64()
	return f
}

func finite(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ParseNumber reads a coordinate attribute. Unparsable input reports false.
func ParseNumber(s string) (float64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

func number(el *etree.Element, key string, fallback float64) float64 {
	attr := el.SelectAttr(key)
	if attr == nil {
		return fallback
	}
	v, ok := ParseNumber(attr.Value)
	if !ok || v == 0 {
		return fallback
	}
	return v
}

// WriteBounds appends a dc:Bounds child to parent.
func WriteBounds(parent *etree.Element, b graph.Bounds, rounded bool) *etree.Element {
	format := FormatNumber
	if rounded {
		format = FormatRounded
	}
	el := parent.CreateElement(Canvas(Bounds))
	el.CreateAttr("x", format(b.X))
	el.CreateAttr("y", format(b.Y))
	el.CreateAttr("width", format(b.Width))
	el.CreateAttr("height", format(b.Height))
	return el
}

// WriteLabel appends a bpmndi:BPMNLabel with its bounds to parent.
func WriteLabel(parent *etree.Element, b graph.Bounds, rounded bool) *etree.Element {
	el := parent.CreateElement(Diagram(BPMNLabel))
	WriteBounds(el, b, rounded)
	return el
}

func WriteWaypoint(parent *etree.Element, p graph.AbsPoint) *etree.Element {
	el := parent.CreateElement(Interchange(Waypoint))
	el.CreateAttr("x", FormatRounded(p.X))
	el.CreateAttr("y", FormatRounded(p.Y))
	return el
}

// ReadShapeBounds reads the dc:Bounds child of a shape. A missing or zero
// size falls back to 100x60.
func ReadShapeBounds(shape *etree.Element) (graph.Bounds, bool) {
	el := firstDiagramChild(shape, Bounds)
	if el == nil {
		return graph.Bounds{}, false
	}
	return graph.Bounds{
		X:      number(el, "x", 0),
		Y:      number(el, "y", 0),
		Width:  number(el, "width", 100),
		Height: number(el, "height", 60),
	}, true
}

// ReadLabelBounds reads the bounds of the BPMNLabel child of a shape or edge.
func ReadLabelBounds(parent *etree.Element) (*graph.Bounds, bool) {
	label := firstDiagramChild(parent, BPMNLabel)
	if label == nil {
		return nil, false
	}
	el := firstDiagramChild(label, Bounds)
	if el == nil {
		return nil, false
	}
	return &graph.Bounds{
		X:      number(el, "x", 0),
		Y:      number(el, "y", 0),
		Width:  number(el, "width", 0),
		Height: number(el, "height", 0),
	}, true
}

func ReadWaypoints(edge *etree.Element) []graph.AbsPoint {
	out := make([]graph.AbsPoint, 0)
	for _, child := range edge.ChildElements() {
		if !IsDiagram(child, Waypoint) {
			continue
		}
		out = append(out, graph.AbsPoint{X: number(child, "x", 0), Y: number(child, "y", 0)})
	}
	return out
}

func firstDiagramChild(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if IsDiagram(child, tag) {
			return child
		}
	}
	return nil
}
