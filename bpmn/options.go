package bpmn

import (
	"github.com/vine-io/bpmnkit/graph"
)

const (
	DefaultDefinitionsID = "Definitions_1"
	DefaultProcessID     = "Process_1"
	DefaultIndent        = 2

	Exporter        = "bpmnkit"
	ExporterVersion = "0.1.0"
)

// Options configures Export and Import.
type Options struct {
	// Indent is the number of spaces per nesting level. A negative value
	// writes the document on one line.
	Indent          int
	DefinitionsID   string
	CollaborationID string
	// ProcessID names the process of a diagram without participants when no
	// node remembers one.
	ProcessID string
	// Heuristics enables label sniffing for gateway and event definition
	// types when no explicit marker exists.
	Heuristics bool
	// SelfCheck re-reads the exported document and reports what it finds.
	SelfCheck bool
	Reporter  Reporter
	// IDPrefix is the prefix of the counter returned by Import.
	IDPrefix string
}

// Option represents a configuration option for Export and Import.
type Option func(o *Options)

func NewOptions(opts ...Option) *Options {
	options := Options{
		Indent:     DefaultIndent,
		Heuristics: true,
		SelfCheck:  true,
	}
	for _, o := range opts {
		o(&options)
	}

	if options.DefinitionsID == "" {
		options.DefinitionsID = DefaultDefinitionsID
	}
	if options.ProcessID == "" {
		options.ProcessID = DefaultProcessID
	}
	if options.IDPrefix == "" {
		options.IDPrefix = graph.DefaultPrefix
	}

	return &options
}

func WithIndent(spaces int) Option {
	return func(o *Options) {
		o.Indent = spaces
	}
}

func WithDefinitionsID(id string) Option {
	return func(o *Options) {
		o.DefinitionsID = id
	}
}

// WithCollaborationID sets the collaboration id used when no participant
// carries one from a previous import.
func WithCollaborationID(id string) Option {
	return func(o *Options) {
		o.CollaborationID = id
	}
}

func WithProcessID(id string) Option {
	return func(o *Options) {
		o.ProcessID = id
	}
}

func WithLabelHeuristics(enabled bool) Option {
	return func(o *Options) {
		o.Heuristics = enabled
	}
}

func WithSelfCheck(enabled bool) Option {
	return func(o *Options) {
		o.SelfCheck = enabled
	}
}

func WithReporter(r Reporter) Option {
	return func(o *Options) {
		o.Reporter = r
	}
}

func WithIDPrefix(prefix string) Option {
	return func(o *Options) {
		o.IDPrefix = prefix
	}
}
