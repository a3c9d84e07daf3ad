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
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/vine-io/bpmnkit/bpmn"
	"github.com/vine-io/bpmnkit/graph"
)

func TestOperationJSON(t *testing.T) {
	ops := []Operation{Operation_OP_EXPORT, Operation_OP_IMPORT, Operation_OP_VALIDATE}
	for _, op := range ops {
		data, err := json.Marshal(&op)
		if !assert.NoError(t, err) {
			return
		}
		var out Operation
		if assert.NoError(t, json.Unmarshal(data, &out)) {
			assert.Equal(t, op, out)
		}
	}

	var op Operation
	assert.NoError(t, json.Unmarshal([]byte(`"delete"`), &op))
	assert.Equal(t, Operation_OP_UNKNOWN, op)
}

func TestExportRequestValidate(t *testing.T) {
	indent := 4
	req := &ExportRequest{Indent: &indent, CollaborationID: "Collaboration_1"}
	assert.NoError(t, req.Validate())
	assert.Len(t, req.Options(), 2)

	indent = MaxIndent + 1
	assert.Error(t, req.Validate())

	indent = 2
	req.CollaborationID = "1 bad id"
	assert.Error(t, req.Validate())

	assert.NoError(t, (&ExportRequest{}).Validate())
	assert.Empty(t, (&ExportRequest{}).Options())
}

func TestExportRequestJSON(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"S1","type":"startEvent","position":{"x":100,"y":100}}],"edges":[],"heuristics":false}`)

	req := &ExportRequest{}
	if !assert.NoError(t, json.Unmarshal(data, req)) {
		return
	}
	g := req.Graph()
	if assert.Len(t, g.Nodes, 1) {
		assert.Equal(t, graph.KindStartEvent, g.Nodes[0].Kind)
	}
	if assert.NotNil(t, req.Heuristics) {
		assert.False(t, *req.Heuristics)
	}
	assert.Nil(t, req.Indent)
}

func TestExportRequestValidateGraph(t *testing.T) {
	req := &ExportRequest{
		Nodes: []*graph.Node{{ID: "T1", Kind: graph.KindTask}},
		Edges: []*graph.Edge{{ID: "F1", Source: "T1", Target: "Missing"}},
	}
	assert.NoError(t, req.ValidateGraph())
	assert.NoError(t, (&ExportRequest{}).ValidateGraph())

	req.Nodes = append(req.Nodes, &graph.Node{ID: "X1"})
	assert.Error(t, req.ValidateGraph())

	req.Nodes = []*graph.Node{nil}
	assert.Error(t, req.ValidateGraph())

	req = &ExportRequest{}
	if !assert.NoError(t, json.Unmarshal([]byte(`{"nodes":[],"edges":[null]}`), req)) {
		return
	}
	assert.Error(t, req.ValidateGraph())
}

func TestImportRequestValidate(t *testing.T) {
	assert.Error(t, (&ImportRequest{}).Validate())
	assert.NoError(t, (&ImportRequest{XML: "<definitions/>"}).Validate())
	assert.Error(t, (&ImportRequest{XML: "<definitions/>", Prefix: "a b"}).Validate())
}

func TestNewImportResponse(t *testing.T) {
	result, err := bpmn.Import(`<definitions><process id="P"><task id="Task_7"/></process></definitions>`)
	if !assert.NoError(t, err) {
		return
	}

	rsp := NewImportResponse(result)
	assert.Len(t, rsp.Nodes, 1)
	assert.Equal(t, "Node_8", rsp.NextID)
	assert.NotNil(t, rsp.Warnings)
}

func TestNewValidateResponse(t *testing.T) {
	rsp := NewValidateResponse(nil)
	assert.True(t, rsp.Valid)
	assert.Empty(t, rsp.Errors)

	req := &ValidateRequest{
		Nodes: []*graph.Node{
			{ID: "T1", Kind: graph.KindTask},
			{ID: "T1", Kind: graph.KindTask},
		},
		Edges: []*graph.Edge{{ID: "F1", Source: "T1", Target: "Missing", FlowKind: graph.SequenceFlow}},
	}
	rsp = NewValidateResponse(req.Graph().Validate())
	assert.False(t, rsp.Valid)
	assert.Equal(t, []string{"F1", "T1"}, rsp.Keys())

	rsp = NewValidateResponse(errors.New("boom"))
	assert.Equal(t, "boom", rsp.Errors[""])
}

func TestError(t *testing.T) {
	e := BadRequest("bad %s", "input")
	assert.Equal(t, int32(400), e.Code)
	assert.Equal(t, "Bad Request", e.Status)
	assert.Equal(t, 400, e.HTTPStatus())

	parsed := Parse(e.Error())
	assert.Equal(t, e, parsed)
	assert.Equal(t, "bad input", parsed.Detail)

	plain := Parse("plain")
	assert.Equal(t, "plain", plain.Detail)
	assert.Equal(t, 500, plain.HTTPStatus())

	assert.Equal(t, 415, UnsupportedMediaType("text/plain").HTTPStatus())
	assert.Equal(t, "Unprocessable Entity", UnprocessableEntity("x").Status)
}
