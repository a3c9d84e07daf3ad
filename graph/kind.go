package graph

import (
	"fmt"
	"strings"
)

// Kind is the closed set of diagram element variants.
type Kind int32

const (
	KindUnknown Kind = iota
	KindStartEvent
	KindEndEvent
	KindTask
	KindServiceTask
	KindUserTask
	KindScriptTask
	KindBusinessRuleTask
	KindSendTask
	KindReceiveTask
	KindManualTask
	KindGateway
	KindExclusiveGateway
	KindInclusiveGateway
	KindParallelGateway
	KindEventBasedGateway
	KindComplexGateway
	KindIntermediateEvent
	KindIntermediateCatchEvent
	KindIntermediateThrowEvent
	KindBoundaryEvent
	KindSubProcess
	KindCallActivity
	KindDataObject
	KindDataObjectReference
	KindDataStore
	KindDataStoreReference
	KindGroup
	KindTextAnnotation
	KindParticipant
	KindLane

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:                "",
	KindStartEvent:             "startEvent",
	KindEndEvent:               "endEvent",
	KindTask:                   "task",
	KindServiceTask:            "serviceTask",
	KindUserTask:               "userTask",
	KindScriptTask:             "scriptTask",
	KindBusinessRuleTask:       "businessRuleTask",
	KindSendTask:               "sendTask",
	KindReceiveTask:            "receiveTask",
	KindManualTask:             "manualTask",
	KindGateway:                "gateway",
	KindExclusiveGateway:       "exclusiveGateway",
	KindInclusiveGateway:       "inclusiveGateway",
	KindParallelGateway:        "parallelGateway",
	KindEventBasedGateway:      "eventBasedGateway",
	KindComplexGateway:         "complexGateway",
	KindIntermediateEvent:      "intermediateEvent",
	KindIntermediateCatchEvent: "intermediateCatchEvent",
	KindIntermediateThrowEvent: "intermediateThrowEvent",
	KindBoundaryEvent:          "boundaryEvent",
	KindSubProcess:             "subProcess",
	KindCallActivity:           "callActivity",
	KindDataObject:             "dataObject",
	KindDataObjectReference:    "dataObjectReference",
	KindDataStore:              "dataStore",
	KindDataStoreReference:     "dataStoreReference",
	KindGroup:                  "group",
	KindTextAnnotation:         "textAnnotation",
	KindParticipant:            "participant",
	KindLane:                   "lane",
}

var kindLabels = [kindCount]string{
	KindStartEvent:             "Start",
	KindEndEvent:               "End",
	KindTask:                   "Task",
	KindServiceTask:            "Service Task",
	KindUserTask:               "User Task",
	KindScriptTask:             "Script Task",
	KindBusinessRuleTask:       "Business Rule Task",
	KindSendTask:               "Send Task",
	KindReceiveTask:            "Receive Task",
	KindManualTask:             "Manual Task",
	KindGateway:                "Gateway",
	KindExclusiveGateway:       "Exclusive Gateway",
	KindInclusiveGateway:       "Inclusive Gateway",
	KindParallelGateway:        "Parallel Gateway",
	KindEventBasedGateway:      "Event Gateway",
	KindComplexGateway:         "Complex Gateway",
	KindIntermediateEvent:      "Intermediate Event",
	KindIntermediateCatchEvent: "Intermediate Event",
	KindIntermediateThrowEvent: "Intermediate Event",
	KindBoundaryEvent:          "Boundary Event",
	KindSubProcess:             "Sub Process",
	KindCallActivity:           "Call Activity",
	KindDataObject:             "Data Object",
	KindDataObjectReference:    "Data Object",
	KindDataStore:              "Data Store",
	KindDataStoreReference:     "Data Store",
	KindGroup:                  "Group",
	KindTextAnnotation:         "Annotation",
	KindParticipant:            "Participant",
	KindLane:                   "Lane",
}

var kindByName = func() map[string]Kind {
	out := make(map[string]Kind, kindCount)
	for k := KindStartEvent; k < kindCount; k++ {
		out[kindNames[k]] = k
	}
	return out
}()

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindStartEvent; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves the editor name of a kind, e.g. "serviceTask".
func ParseKind(name string) (Kind, error) {
	if k, ok := kindByName[name]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("unknown node kind %q", name)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid node kind %d", int32(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// DefaultLabel is the display name given to an element that has none.
func (k Kind) DefaultLabel() string {
	if !k.Valid() {
		return ""
	}
	if kindLabels[k] != "" {
		return kindLabels[k]
	}
	name := k.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func (k Kind) IsStartOrEnd() bool {
	return k == KindStartEvent || k == KindEndEvent
}

func (k Kind) IsTask() bool {
	return k >= KindTask && k <= KindManualTask
}

func (k Kind) IsGateway() bool {
	return k >= KindGateway && k <= KindComplexGateway
}

// IsIntermediate reports intermediate and boundary events.
func (k Kind) IsIntermediate() bool {
	return k >= KindIntermediateEvent && k <= KindBoundaryEvent
}

func (k Kind) IsEvent() bool {
	return k.IsStartOrEnd() || k.IsIntermediate()
}

func (k Kind) IsActivity() bool {
	return k.IsTask() || k == KindSubProcess || k == KindCallActivity
}

func (k Kind) IsDataObject() bool {
	return k == KindDataObject || k == KindDataObjectReference
}

func (k Kind) IsDataStore() bool {
	return k == KindDataStore || k == KindDataStoreReference
}

func (k Kind) IsArtifact() bool {
	return k == KindGroup || k == KindTextAnnotation
}

// IsContainer reports participants and lanes.
func (k Kind) IsContainer() bool {
	return k == KindParticipant || k == KindLane
}

// IsFlowNode reports elements taking part in sequence or message flow.
func (k Kind) IsFlowNode() bool {
	return k.IsEvent() || k.IsActivity() || k.IsGateway()
}

// Generic folds a concrete element kind into the kind the editor renders it
// with: task variants become task, gateway variants gateway, catch, throw and
// boundary events intermediateEvent, data references their data kind.
func (k Kind) Generic() Kind {
	switch {
	case k.IsTask():
		return KindTask
	case k.IsGateway():
		return KindGateway
	case k.IsIntermediate():
		return KindIntermediateEvent
	case k.IsDataObject():
		return KindDataObject
	case k.IsDataStore():
		return KindDataStore
	}
	return k
}

// DefaultSize is the shape size used when no original bounds exist.
func (k Kind) DefaultSize() Size {
	switch {
	case k.IsEvent():
		return Size{Width: 36, Height: 36}
	case k.IsGateway():
		return Size{Width: 50, Height: 50}
	case k.IsTask():
		return Size{Width: 100, Height: 80}
	case k == KindSubProcess, k == KindCallActivity:
		return Size{Width: 120, Height: 80}
	case k.IsDataObject():
		return Size{Width: 36, Height: 50}
	case k.IsDataStore():
		return Size{Width: 50, Height: 50}
	case k == KindGroup:
		return Size{Width: 200, Height: 150}
	case k == KindTextAnnotation:
		return Size{Width: 100, Height: 30}
	case k == KindParticipant:
		return Size{Width: 1333, Height: 292}
	case k == KindLane:
		return Size{Width: 1303, Height: 141}
	}
	return Size{Width: 100, Height: 60}
}
