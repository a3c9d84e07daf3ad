package bpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/bpmnkit/graph"
)

func TestSerializersCoverEveryKind(t *testing.T) {
	for _, k := range graph.Kinds() {
		if k.IsContainer() {
			continue
		}
		n := &graph.Node{ID: "N", Kind: k.Generic(), Variant: k}
		kind := elementKind(n, true)
		_, ok := serializers[kind]
		assert.True(t, ok, "%s resolves to %s without serializer", k, kind)
	}
}

func TestDeserializersCoverConcreteKinds(t *testing.T) {
	for _, k := range graph.Kinds() {
		if k.IsContainer() || k == graph.KindGateway || k == graph.KindIntermediateEvent {
			continue
		}
		_, ok := deserializers[k.String()]
		assert.True(t, ok, k.String())
	}
}

func TestElementKind(t *testing.T) {
	cases := []struct {
		name       string
		node       graph.Node
		heuristics bool
		want       graph.Kind
	}{
		{"plain task", graph.Node{Kind: graph.KindTask}, true, graph.KindTask},
		{"task variant", graph.Node{Kind: graph.KindTask, Variant: graph.KindScriptTask}, true, graph.KindScriptTask},
		{"foreign variant", graph.Node{Kind: graph.KindTask, Variant: graph.KindParallelGateway}, true, graph.KindTask},
		{"gateway variant", graph.Node{Kind: graph.KindGateway, Variant: graph.KindInclusiveGateway, Label: "parallel"}, true, graph.KindInclusiveGateway},
		{"parallel label", graph.Node{Kind: graph.KindGateway, Label: "Parallel split"}, true, graph.KindParallelGateway},
		{"event label", graph.Node{Kind: graph.KindGateway, Label: "Wait for Event"}, true, graph.KindEventBasedGateway},
		{"label ignored", graph.Node{Kind: graph.KindGateway, Label: "Parallel split"}, false, graph.KindExclusiveGateway},
		{"plain gateway", graph.Node{Kind: graph.KindGateway}, true, graph.KindExclusiveGateway},
		{"intermediate", graph.Node{Kind: graph.KindIntermediateEvent}, true, graph.KindIntermediateCatchEvent},
		{"throw", graph.Node{Kind: graph.KindIntermediateEvent, Variant: graph.KindIntermediateThrowEvent}, true, graph.KindIntermediateThrowEvent},
		{"boundary", graph.Node{Kind: graph.KindIntermediateEvent, Variant: graph.KindBoundaryEvent}, true, graph.KindBoundaryEvent},
		{"data object", graph.Node{Kind: graph.KindDataObject}, true, graph.KindDataObjectReference},
		{"data store", graph.Node{Kind: graph.KindDataStore}, true, graph.KindDataStoreReference},
		{"concrete kind", graph.Node{Kind: graph.KindCallActivity}, true, graph.KindCallActivity},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, elementKind(&c.node, c.heuristics))
		})
	}
}

func TestEventSubtype(t *testing.T) {
	cases := []struct {
		name       string
		node       graph.Node
		kind       graph.Kind
		heuristics bool
		want       graph.EventSubtype
	}{
		{"explicit", graph.Node{Metadata: graph.Metadata{EventSubtype: graph.SubtypeSignal}}, graph.KindStartEvent, true, graph.SubtypeSignal},
		{"not allowed on start", graph.Node{Metadata: graph.Metadata{EventSubtype: graph.SubtypeTerminate}}, graph.KindStartEvent, true, graph.SubtypeNone},
		{"terminate end", graph.Node{Metadata: graph.Metadata{EventSubtype: graph.SubtypeTerminate}}, graph.KindEndEvent, true, graph.SubtypeTerminate},
		{"explicit wins over label", graph.Node{Label: "5 minutes", Metadata: graph.Metadata{EventSubtype: graph.SubtypeSignal}}, graph.KindIntermediateCatchEvent, true, graph.SubtypeSignal},
		{"timer label", graph.Node{Label: "Wait 5 Minutes"}, graph.KindIntermediateCatchEvent, true, graph.SubtypeTimer},
		{"message label", graph.Node{Label: "Pizza received"}, graph.KindIntermediateCatchEvent, true, graph.SubtypeMessage},
		{"heuristics off", graph.Node{Label: "Wait 5 minutes"}, graph.KindIntermediateCatchEvent, false, graph.SubtypeNone},
		{"start ignores label", graph.Node{Label: "Pizza received"}, graph.KindStartEvent, true, graph.SubtypeNone},
		{"boundary error", graph.Node{Metadata: graph.Metadata{EventSubtype: graph.SubtypeError}}, graph.KindBoundaryEvent, true, graph.SubtypeError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, eventSubtype(&c.node, c.kind, c.heuristics))
		})
	}
}

func TestEventDefinitionExport(t *testing.T) {
	g := graph.New([]*graph.Node{
		{ID: "I1", Kind: graph.KindIntermediateEvent, Label: "Wait 5 minutes"},
		{ID: "E1", Kind: graph.KindEndEvent, Metadata: graph.Metadata{EventSubtype: graph.SubtypeTerminate}},
	}, nil)

	out, err := Export(g)
	if !assert.NoError(t, err) {
		return
	}
	root := parse(t, out)
	def := byID(root, "I1_def")
	if assert.NotNil(t, def) {
		assert.Equal(t, "timerEventDefinition", def.Tag)
		assert.Equal(t, "I1", def.Parent().SelectAttrValue("id", ""))
	}
	assert.Equal(t, "terminateEventDefinition", byID(root, "E1_def").Tag)

	out, err = Export(g, WithLabelHeuristics(false))
	if !assert.NoError(t, err) {
		return
	}
	assert.Nil(t, byID(parse(t, out), "I1_def"))
}
