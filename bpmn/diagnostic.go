package bpmn

import (
	"fmt"

	log "github.com/vine-io/vine/lib/logger"
)

// Code classifies a Warning.
type Code string

const (
	// CodeMissingReference marks a flow whose source or target does not exist.
	CodeMissingReference Code = "MissingReference"
	// CodeDroppedMessageFlow marks a message flow whose ends share an owner.
	CodeDroppedMessageFlow Code = "DroppedMessageFlow"
	// CodeInconsistentFlow marks a sequence flow crossing participants.
	CodeInconsistentFlow Code = "InconsistentFlow"
	// CodeSkippedDataAssociation marks a data edge left out of the diagram.
	CodeSkippedDataAssociation Code = "SkippedDataAssociation"
	CodeOrphanNode             Code = "OrphanNode"
	CodeOrphanLane             Code = "OrphanLane"
	CodeDuplicateID            Code = "DuplicateID"
	CodeUnknownElement         Code = "UnknownElement"
	// CodeSerializationWarning marks a structural problem found when the
	// exporter reads back its own output.
	CodeSerializationWarning Code = "SerializationWarning"
)

// Warning is a non-fatal finding of an Export or Import call.
type Warning struct {
	Code    Code   `json:"code"`
	Element string `json:"element,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Element == "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Element, w.Message)
}

//go:generate mockgen -source=diagnostic.go -destination=mock_reporter_test.go -package=bpmn

// Reporter receives warnings as they are found.
type Reporter interface {
	Report(w Warning)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(w Warning)

func (f ReporterFunc) Report(w Warning) {
	f(w)
}

type diagnostics struct {
	reporter Reporter
	warnings []Warning
}

func newDiagnostics(reporter Reporter) *diagnostics {
	return &diagnostics{reporter: reporter, warnings: make([]Warning, 0)}
}

func (d *diagnostics) warn(code Code, element, format string, args ...any) {
	w := Warning{Code: code, Element: element, Message: fmt.Sprintf(format, args...)}
	d.warnings = append(d.warnings, w)
	if code == CodeSerializationWarning {
		log.Warnf("bpmn: %s", w)
	} else {
		log.Debugf("bpmn: %s", w)
	}
	if d.reporter != nil {
		d.reporter.Report(w)
	}
}

// Count returns the number of warnings carrying code.
func Count(warnings []Warning, code Code) int {
	n := 0
	for _, w := range warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}
