// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package api

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	json "github.com/json-iterator/go"

	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/graph"
)

// MaxIndent bounds ExportRequest.Indent.
const MaxIndent = 16

var ncName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// Operation names a conversion served by the API.
type Operation int32

const (
	Operation_OP_UNKNOWN Operation = iota
	Operation_OP_EXPORT
	Operation_OP_IMPORT
	Operation_OP_VALIDATE
)

func (m Operation) Readably() string {
	switch m {
	case Operation_OP_EXPORT:
		return "export"
	case Operation_OP_IMPORT:
		return "import"
	case Operation_OP_VALIDATE:
		return "validate"
	default:
		return "unknown"
	}
}

func (m *Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Readably())
}

func (m *Operation) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "export":
		*m = Operation_OP_EXPORT
	case "import":
		*m = Operation_OP_IMPORT
	case "validate":
		*m = Operation_OP_VALIDATE
	default:
		*m = Operation_OP_UNKNOWN
	}
	return nil
}

type ExportRequest struct {
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
	// Indent overrides the server indent, -1 writes one line.
	Indent          *int   `json:"indent,omitempty"`
	CollaborationID string `json:"collaborationId,omitempty"`
	Heuristics      *bool  `json:"heuristics,omitempty"`
}

func (m *ExportRequest) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Indent, validation.Min(-1), validation.Max(MaxIndent)),
		validation.Field(&m.CollaborationID, validation.Match(ncName)),
	)
}

// ValidateGraph checks every node and edge on its own. References between
// elements are left to the exporter, which skips what it can not resolve.
func (m *ExportRequest) ValidateGraph() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Nodes, validation.Each(validation.NotNil)),
		validation.Field(&m.Edges, validation.Each(validation.NotNil)),
	)
}

// Graph is the diagram carried by the request.
func (m *ExportRequest) Graph() *graph.Graph {
	return graph.New(m.Nodes, m.Edges)
}

// Options turns the request overrides into export options.
func (m *ExportRequest) Options() []bpmn.Option {
	opts := make([]bpmn.Option, 0, 3)
	if m.Indent != nil {
		opts = append(opts, bpmn.WithIndent(*m.Indent))
	}
	if m.CollaborationID != "" {
		opts = append(opts, bpmn.WithCollaborationID(m.CollaborationID))
	}
	if m.Heuristics != nil {
		opts = append(opts, bpmn.WithLabelHeuristics(*m.Heuristics))
	}
	return opts
}

type ExportResponse struct {
	XML      string         `json:"xml"`
	Warnings []bpmn.Warning `json:"warnings"`
}

type ImportRequest struct {
	XML string `json:"xml"`
	// Prefix of NextID, defaults to the graph prefix.
	Prefix string `json:"prefix,omitempty"`
}

func (m *ImportRequest) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.XML, validation.Required),
		validation.Field(&m.Prefix, validation.Match(ncName)),
	)
}

func (m *ImportRequest) Options() []bpmn.Option {
	if m.Prefix == "" {
		return nil
	}
	return []bpmn.Option{bpmn.WithIDPrefix(m.Prefix)}
}

type ImportResponse struct {
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
	// NextID is the first id free for new elements.
	NextID   string         `json:"nextId"`
	Warnings []bpmn.Warning `json:"warnings"`
}

// NewImportResponse flattens an import result.
func NewImportResponse(result *bpmn.Result) *ImportResponse {
	next, _ := result.Counter.Next()
	warnings := result.Warnings
	if warnings == nil {
		warnings = []bpmn.Warning{}
	}
	return &ImportResponse{
		Nodes:    result.Graph.Nodes,
		Edges:    result.Graph.Edges,
		NextID:   next,
		Warnings: warnings,
	}
}

// MintResponse carries an element id nobody holds yet.
type MintResponse struct {
	ID string `json:"id"`
}

type ValidateRequest struct {
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
}

func (m *ValidateRequest) Graph() *graph.Graph {
	return graph.New(m.Nodes, m.Edges)
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
	// Errors maps element ids to what is wrong with them.
	Errors map[string]string `json:"errors,omitempty"`
}

// NewValidateResponse reports the outcome of graph.Graph.Validate.
func NewValidateResponse(err error) *ValidateResponse {
	rsp := &ValidateResponse{Valid: err == nil}
	if err == nil {
		return rsp
	}

	rsp.Errors = map[string]string{}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		rsp.Errors[""] = err.Error()
		return rsp
	}
	for id, e := range errs {
		rsp.Errors[id] = e.Error()
	}
	return rsp
}

// Keys returns the ids in Errors in order.
func (m *ValidateResponse) Keys() []string {
	keys := make([]string, 0, len(m.Errors))
	for k := range m.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
