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

package bpmnkit

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vine-io/bpmnkit/bpmn"
)

const (
	DefaultName         = "bpmnkit"
	DefaultMaxBodyBytes = 8 << 20
)

type Options struct {
	Name string
	// MaxBodyBytes limits request bodies, larger ones fail with 413.
	MaxBodyBytes int64
	// Indent and Heuristics are the export defaults, a request may
	// override both.
	Indent     int
	Heuristics bool
	Registry   *prometheus.Registry
}

// Option represents a configuration option for Server.
type Option func(o *Options)

func NewOptions(opts ...Option) *Options {
	options := Options{
		Name:         DefaultName,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Indent:       bpmn.DefaultIndent,
		Heuristics:   true,
	}
	for _, o := range opts {
		o(&options)
	}

	if options.Registry == nil {
		options.Registry = prometheus.NewRegistry()
	}

	return &options
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithMaxBodyBytes sets the MaxBodyBytes field of *Options to the specified value.
func WithMaxBodyBytes(n int64) Option {
	return func(o *Options) {
		o.MaxBodyBytes = n
	}
}

func WithIndent(spaces int) Option {
	return func(o *Options) {
		o.Indent = spaces
	}
}

func WithHeuristics(enabled bool) Option {
	return func(o *Options) {
		o.Heuristics = enabled
	}
}

// WithRegistry registers the server metrics on r instead of a private
// registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}
