// Package schema holds the BPMN 2.0 XML vocabulary shared by the exporter and
// the importer: namespaces, element names and the coordinate codec.
package schema

import (
	"strings"

	"github.com/beevik/etree"
)

const (
	ModelNS       = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	DiagramNS     = "http://www.omg.org/spec/BPMN/20100524/DI"
	CanvasNS      = "http://www.omg.org/spec/DD/20100524/DC"
	InterchangeNS = "http://www.omg.org/spec/DD/20100524/DI"
	XSINS         = "http://www.w3.org/2001/XMLSchema-instance"

	TargetNamespace = "http://bpmn.io/schema/bpmn"
)

const (
	ModelPrefix       = "bpmn"
	DiagramPrefix     = "bpmndi"
	CanvasPrefix      = "dc"
	InterchangePrefix = "di"
	XSIPrefix         = "xsi"
)

// model elements
const (
	Definitions   = "definitions"
	Collaboration = "collaboration"
	Participant   = "participant"
	MessageFlow   = "messageFlow"
	Process       = "process"
	LaneSet       = "laneSet"
	ChildLaneSet  = "childLaneSet"
	Lane          = "lane"
	FlowNodeRef   = "flowNodeRef"
	SequenceFlow  = "sequenceFlow"
	Documentation = "documentation"
	Incoming      = "incoming"
	Outgoing      = "outgoing"
	Text          = "text"
	DataObject    = "dataObject"
)

// diagram elements
const (
	BPMNDiagram = "BPMNDiagram"
	BPMNPlane   = "BPMNPlane"
	BPMNShape   = "BPMNShape"
	BPMNEdge    = "BPMNEdge"
	BPMNLabel   = "BPMNLabel"
	Bounds      = "Bounds"
	Waypoint    = "waypoint"
)

// attributes
const (
	AttrID           = "id"
	AttrName         = "name"
	AttrSourceRef    = "sourceRef"
	AttrTargetRef    = "targetRef"
	AttrProcessRef   = "processRef"
	AttrDataRef      = "dataObjectRef"
	AttrExecutable   = "isExecutable"
	AttrBPMNElement  = "bpmnElement"
	AttrIsHorizontal = "isHorizontal"
)

func Model(tag string) string {
	return ModelPrefix + ":" + tag
}

func Diagram(tag string) string {
	return DiagramPrefix + ":" + tag
}

func Canvas(tag string) string {
	return CanvasPrefix + ":" + tag
}

func Interchange(tag string) string {
	return InterchangePrefix + ":" + tag
}

// NewDocument starts a document with the XML declaration and an empty
// definitions root carrying every namespace the exporter writes.
func NewDocument(id, exporter, version string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(Model(Definitions))
	root.CreateAttr("xmlns:"+XSIPrefix, XSINS)
	root.CreateAttr("xmlns:"+ModelPrefix, ModelNS)
	root.CreateAttr("xmlns:"+DiagramPrefix, DiagramNS)
	root.CreateAttr("xmlns:"+CanvasPrefix, CanvasNS)
	root.CreateAttr("xmlns:"+InterchangePrefix, InterchangeNS)
	root.CreateAttr(AttrID, id)
	root.CreateAttr("targetNamespace", TargetNamespace)
	if exporter != "" {
		root.CreateAttr("exporter", exporter)
	}
	if version != "" {
		root.CreateAttr("exporterVersion", version)
	}
	return doc, root
}

// IsModel reports whether el is the model element tag. Documents written with
// no prefix, the usual bpmn or bpmn2 prefix, or any prefix bound to the model
// namespace are all accepted.
func IsModel(el *etree.Element, tag string) bool {
	if el == nil || el.Tag != tag {
		return false
	}
	switch el.Space {
	case "", ModelPrefix, "bpmn2":
		return true
	}
	return LookupNamespace(el, el.Space) == ModelNS
}

// IsDiagram matches diagram interchange elements by local name only.
func IsDiagram(el *etree.Element, tag string) bool {
	return el != nil && el.Tag == tag
}

// ModelChildren lists the direct children of el that are the model element
// tag.
func ModelChildren(el *etree.Element, tag string) []*etree.Element {
	out := make([]*etree.Element, 0)
	for _, child := range el.ChildElements() {
		if IsModel(child, tag) {
			out = append(out, child)
		}
	}
	return out
}

// FindModel is a depth-first search for the first model element tag below el.
func FindModel(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if IsModel(child, tag) {
			return child
		}
		if found := FindModel(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// FindDiagram collects every diagram element tag below el in document order.
func FindDiagram(el *etree.Element, tag string) []*etree.Element {
	out := make([]*etree.Element, 0)
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if IsDiagram(child, tag) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(el)
	return out
}

// LookupNamespace resolves prefix against the xmlns declarations in scope at
// el. It returns an empty string for unbound prefixes.
func LookupNamespace(el *etree.Element, prefix string) string {
	key := "xmlns"
	if prefix != "" {
		key = "xmlns:" + prefix
	}
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if attr.FullKey() == key {
				return attr.Value
			}
		}
	}
	return ""
}

// IsDeclaration reports xmlns attributes.
func IsDeclaration(attr etree.Attr) bool {
	return attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns")
}

// TextOf is the trimmed text content of el.
func TextOf(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}
