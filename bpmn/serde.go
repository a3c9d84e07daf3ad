package bpmn

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/vine-io/bpmnkit/graph"
	"github.com/vine-io/bpmnkit/schema"
)

// serializers is keyed by the concrete element kind; generic kinds are
// resolved by elementKind before lookup.
var serializers = map[graph.Kind]nodeSerializer{
	graph.KindStartEvent:             &eventSerde{incoming: false, outgoing: true},
	graph.KindEndEvent:               &eventSerde{incoming: true, outgoing: false},
	graph.KindIntermediateCatchEvent: &eventSerde{incoming: true, outgoing: true},
	graph.KindIntermediateThrowEvent: &eventSerde{incoming: true, outgoing: true},
	graph.KindBoundaryEvent:          &eventSerde{incoming: true, outgoing: true},
	graph.KindTask:                   &activitySerde{},
	graph.KindServiceTask:            &activitySerde{},
	graph.KindUserTask:               &activitySerde{},
	graph.KindScriptTask:             &activitySerde{},
	graph.KindBusinessRuleTask:       &activitySerde{},
	graph.KindSendTask:               &activitySerde{},
	graph.KindReceiveTask:            &activitySerde{},
	graph.KindManualTask:             &activitySerde{},
	graph.KindSubProcess:             &activitySerde{},
	graph.KindCallActivity:           &activitySerde{},
	graph.KindExclusiveGateway:       &activitySerde{},
	graph.KindInclusiveGateway:       &activitySerde{},
	graph.KindParallelGateway:        &activitySerde{},
	graph.KindEventBasedGateway:      &activitySerde{},
	graph.KindComplexGateway:         &activitySerde{},
	graph.KindDataObjectReference:    &dataObjectSerde{},
	graph.KindDataStoreReference:     &dataStoreSerde{},
	graph.KindGroup:                  &groupSerde{},
	graph.KindTextAnnotation:         &textAnnotationSerde{},
}

// deserializers is keyed by the local element name.
var deserializers = map[string]nodeDeserializer{
	"startEvent":             &eventSerde{},
	"endEvent":               &eventSerde{},
	"intermediateThrowEvent": &eventSerde{},
	"intermediateCatchEvent": &eventSerde{},
	"boundaryEvent":          &eventSerde{},
	"task":                   &activitySerde{},
	"serviceTask":            &activitySerde{},
	"userTask":               &activitySerde{},
	"scriptTask":             &activitySerde{},
	"businessRuleTask":       &activitySerde{},
	"sendTask":               &activitySerde{},
	"receiveTask":            &activitySerde{},
	"manualTask":             &activitySerde{},
	"subProcess":             &activitySerde{},
	"callActivity":           &activitySerde{},
	"exclusiveGateway":       &activitySerde{},
	"inclusiveGateway":       &activitySerde{},
	"parallelGateway":        &activitySerde{},
	"eventBasedGateway":      &activitySerde{},
	"complexGateway":         &activitySerde{},
	"dataObject":             &dataObjectSerde{},
	"dataObjectReference":    &dataObjectSerde{},
	"dataStore":              &dataStoreSerde{},
	"dataStoreReference":     &dataStoreSerde{},
	"group":                  &groupSerde{},
	"textAnnotation":         &textAnnotationSerde{},
}

type nodeSerializer interface {
	Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error
}

type nodeDeserializer interface {
	Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error)
}

// serialize appends the process element of n to parent.
func (x *exporter) serialize(n *graph.Node, parent *etree.Element) error {
	kind := elementKind(n, x.opts.Heuristics)
	serializer, ok := serializers[kind]
	if !ok {
		return fmt.Errorf("%s not support to serialize", kind)
	}

	return serializer.Serialize(x, n, kind, parent)
}

func (m *importer) deserialize(el *etree.Element) (*graph.Node, error) {
	deserializer, ok := deserializers[el.Tag]
	if !ok {
		return nil, fmt.Errorf("%s not support to deserialize", el.FullTag())
	}
	kind, err := graph.ParseKind(el.Tag)
	if err != nil {
		return nil, err
	}

	return deserializer.Deserialize(m, el, kind)
}

// elementSerde writes and reads what every node element shares: id, name,
// preserved attributes and documentation.
type elementSerde struct{}

func (s *elementSerde) serialize(n *graph.Node, kind graph.Kind, parent *etree.Element) *etree.Element {
	start := parent.CreateElement(schema.Model(kind.String()))
	start.CreateAttr(schema.AttrID, n.ID)
	if n.Label != "" {
		start.CreateAttr(schema.AttrName, n.Label)
	}
	writeAttributes(start, n.Metadata.Attributes)
	writeDocumentation(start, n.Documentation, n.Metadata.Documentation)
	return start
}

func (s *elementSerde) deserialize(m *importer, el *etree.Element, kind graph.Kind) *graph.Node {
	id, _ := getAttr(el.Attr, schema.AttrID)
	if id == "" {
		id = m.generateID(el.Tag)
	}
	label, _ := getAttr(el.Attr, schema.AttrName)
	if label == "" {
		label = kind.DefaultLabel()
	}

	n := &graph.Node{ID: id, Kind: kind.Generic(), Label: label}
	if kind != n.Kind {
		n.Variant = kind
	}
	n.Metadata.Attributes = readAttributes(el)
	n.Metadata.Documentation = readDocumentation(el)
	return n
}

// activitySerde covers tasks, gateways and the collapsed sub-process kinds:
// the element plus its incoming and outgoing flow references.
type activitySerde struct {
	elementSerde
}

func (s *activitySerde) Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error {
	start := s.serialize(n, kind, parent)
	x.writeRefs(start, n.ID, true, true)
	return nil
}

func (s *activitySerde) Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error) {
	return s.deserialize(m, el, kind), nil
}

type eventSerde struct {
	elementSerde
	incoming bool
	outgoing bool
}

func (s *eventSerde) Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error {
	start := s.serialize(n, kind, parent)
	x.writeRefs(start, n.ID, s.incoming, s.outgoing)

	if st := eventSubtype(n, kind, x.opts.Heuristics); st != graph.SubtypeNone {
		def := start.CreateElement(schema.Model(definitionTag(st)))
		def.CreateAttr(schema.AttrID, n.ID+"_def")
	}
	return nil
}

func (s *eventSerde) Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error) {
	n := s.deserialize(m, el, kind)
	for _, child := range el.ChildElements() {
		if !strings.HasSuffix(child.Tag, "EventDefinition") {
			continue
		}
		st, ok := subtypeByTag[child.Tag]
		if !ok {
			m.diag.warn(CodeUnknownElement, n.ID, "event definition %s is not supported", child.Tag)
			continue
		}
		n.Metadata.EventSubtype = st
		break
	}
	return n, nil
}

// dataObjectSerde writes a reference plus the backing data object it points
// at, whose id is derived from the reference.
type dataObjectSerde struct {
	elementSerde
}

func dataObjectID(id string) string {
	return "DataObject_" + id
}

func (s *dataObjectSerde) Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error {
	start := s.serialize(n, graph.KindDataObjectReference, parent)
	start.CreateAttr(schema.AttrDataRef, dataObjectID(n.ID))

	object := parent.CreateElement(schema.Model(schema.DataObject))
	object.CreateAttr(schema.AttrID, dataObjectID(n.ID))
	if n.Label != "" {
		object.CreateAttr(schema.AttrName, n.Label)
	}
	return nil
}

func (s *dataObjectSerde) Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error) {
	return s.deserialize(m, el, kind), nil
}

type dataStoreSerde struct {
	elementSerde
}

func (s *dataStoreSerde) Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error {
	s.serialize(n, graph.KindDataStoreReference, parent)
	return nil
}

func (s *dataStoreSerde) Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error) {
	return s.deserialize(m, el, kind), nil
}

type groupSerde struct {
	elementSerde
}

func (s *groupSerde) Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error {
	s.serialize(n, kind, parent)
	return nil
}

func (s *groupSerde) Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error) {
	return s.deserialize(m, el, kind), nil
}

// textAnnotationSerde keeps the label in a text child instead of a name.
type textAnnotationSerde struct{}

func (s *textAnnotationSerde) Serialize(x *exporter, n *graph.Node, kind graph.Kind, parent *etree.Element) error {
	start := parent.CreateElement(schema.Model(kind.String()))
	start.CreateAttr(schema.AttrID, n.ID)
	writeAttributes(start, n.Metadata.Attributes)
	writeDocumentation(start, n.Documentation, n.Metadata.Documentation)
	start.CreateElement(schema.Model(schema.Text)).SetText(n.Label)
	return nil
}

func (s *textAnnotationSerde) Deserialize(m *importer, el *etree.Element, kind graph.Kind) (*graph.Node, error) {
	n := new(elementSerde).deserialize(m, el, kind)
	if texts := schema.ModelChildren(el, schema.Text); len(texts) > 0 {
		if text := texts[0].Text(); text != "" {
			n.Label = text
		}
	}
	return n, nil
}
