// Copyright 2023 Lack (xingyys@gmail.com).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builder

import (
	"github.com/vine-io/bpmnkit/graph"
)

const (
	// DefaultIntervalX is the distance between the centres of two chained
	// nodes.
	DefaultIntervalX = 150
	// DefaultIntervalY separates the branches leaving the same node.
	DefaultIntervalY = 100

	DefaultStartX = 150
	DefaultStartY = 120
)

type Options struct {
	Prefix    string
	StartX    float64
	StartY    float64
	IntervalX float64
	IntervalY float64
	// Counter continues an existing id sequence, e.g. the one returned by an
	// import.
	Counter *graph.Counter
}

type Option func(o *Options)

func NewOptions(opts ...Option) *Options {
	options := Options{
		Prefix:    graph.DefaultPrefix,
		StartX:    DefaultStartX,
		StartY:    DefaultStartY,
		IntervalX: DefaultIntervalX,
		IntervalY: DefaultIntervalY,
	}
	for _, o := range opts {
		o(&options)
	}

	return &options
}

// WithPrefix sets the prefix of minted ids.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithOrigin sets the centre of the first node of a diagram without
// participants.
func WithOrigin(x, y float64) Option {
	return func(o *Options) {
		o.StartX = x
		o.StartY = y
	}
}

func WithInterval(x, y float64) Option {
	return func(o *Options) {
		o.IntervalX = x
		o.IntervalY = y
	}
}

func WithCounter(c graph.Counter) Option {
	return func(o *Options) {
		o.Counter = &c
	}
}
