package bpmn

import (
	"github.com/vine-io/bpmnkit/graph"
)

// elementKind resolves the concrete element written for a node. Generic
// kinds use the remembered variant first; gateways may then fall back to the
// label when heuristics are enabled.
func elementKind(n *graph.Node, heuristics bool) graph.Kind {
	variant := n.Variant
	if !variant.Valid() || variant.Generic() != n.Kind.Generic() {
		variant = graph.KindUnknown
	}

	switch n.Kind {
	case graph.KindTask:
		if variant.IsTask() {
			return variant
		}
		return graph.KindTask
	case graph.KindGateway:
		if variant.IsGateway() && variant != graph.KindGateway {
			return variant
		}
		if heuristics {
			switch {
			case containsFold(n.Label, "parallel"):
				return graph.KindParallelGateway
			case containsFold(n.Label, "event"):
				return graph.KindEventBasedGateway
			}
		}
		return graph.KindExclusiveGateway
	case graph.KindIntermediateEvent:
		if variant.IsIntermediate() && variant != graph.KindIntermediateEvent {
			return variant
		}
		return graph.KindIntermediateCatchEvent
	case graph.KindDataObject:
		return graph.KindDataObjectReference
	case graph.KindDataStore:
		return graph.KindDataStoreReference
	}
	return n.Kind
}

// allowedSubtypes lists the event definitions each event element may carry.
var allowedSubtypes = map[graph.Kind][]graph.EventSubtype{
	graph.KindStartEvent: {
		graph.SubtypeMessage, graph.SubtypeTimer, graph.SubtypeSignal, graph.SubtypeConditional,
	},
	graph.KindEndEvent: {
		graph.SubtypeMessage, graph.SubtypeTerminate, graph.SubtypeSignal, graph.SubtypeError, graph.SubtypeEscalation,
	},
}

var intermediateSubtypes = []graph.EventSubtype{
	graph.SubtypeMessage, graph.SubtypeTimer, graph.SubtypeSignal,
	graph.SubtypeError, graph.SubtypeConditional, graph.SubtypeEscalation,
}

// eventSubtype decides the event definition of an event element. An explicit
// subtype wins; label sniffing only applies to intermediate events that have
// none.
func eventSubtype(n *graph.Node, kind graph.Kind, heuristics bool) graph.EventSubtype {
	allowed, ok := allowedSubtypes[kind]
	if !ok && kind.IsIntermediate() {
		allowed = intermediateSubtypes
	}

	if st := n.Metadata.EventSubtype; st != graph.SubtypeNone {
		for _, a := range allowed {
			if a == st {
				return st
			}
		}
		return graph.SubtypeNone
	}

	if heuristics && kind.IsIntermediate() {
		switch {
		case containsFold(n.Label, "minute"):
			return graph.SubtypeTimer
		case containsFold(n.Label, "received"), containsFold(n.Label, "pizza"):
			return graph.SubtypeMessage
		}
	}
	return graph.SubtypeNone
}

func definitionTag(st graph.EventSubtype) string {
	return string(st) + "EventDefinition"
}

var subtypeByTag = map[string]graph.EventSubtype{
	definitionTag(graph.SubtypeMessage):     graph.SubtypeMessage,
	definitionTag(graph.SubtypeTimer):       graph.SubtypeTimer,
	definitionTag(graph.SubtypeTerminate):   graph.SubtypeTerminate,
	definitionTag(graph.SubtypeSignal):      graph.SubtypeSignal,
	definitionTag(graph.SubtypeError):       graph.SubtypeError,
	definitionTag(graph.SubtypeConditional): graph.SubtypeConditional,
	definitionTag(graph.SubtypeEscalation):  graph.SubtypeEscalation,
}
