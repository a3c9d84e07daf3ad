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
	"github.com/vine-io/pkg/xname"

	"github.com/vine-io/bpmnkit/graph"
)

const (
	poolX      = 50
	poolY      = 50
	poolStride = 280
	poolWidth  = 910
	poolHeight = 250

	laneGutter = 30
	laneHeight = 125
)

func randName() string {
	return xname.Gen(xname.C(7), xname.Lowercase(), xname.Digit())
}

// center is the middle of a node in its parent's coordinates.
func center(n *graph.Node) (float64, float64) {
	size := graph.SizeOf(n)
	return n.Position.X + size.Width/2, n.Position.Y + size.Height/2
}

// placeAt positions n so that its middle lands on (x, y), never closer to the
// parent edge than the header and lane gutter allow.
func placeAt(n *graph.Node, x, y float64) {
	size := graph.SizeOf(n)
	p := graph.Point{X: x - size.Width/2, Y: y - size.Height/2}
	if n.ParentID != "" {
		p = graph.ClampToParent(p)
	} else {
		if p.X < 0 {
			p.X = 0
		}
		if p.Y < 0 {
			p.Y = 0
		}
	}
	n.Position = p
}

// fit grows a participant so that n stays inside it.
func fit(pool *graph.Node, n *graph.Node) {
	size := graph.SizeOf(n)
	right := n.Position.X + size.Width + graph.PadLeft
	bottom := n.Position.Y + size.Height + graph.PadTop
	if right > pool.Size.Width {
		pool.Size.Width = right
	}
	if bottom > pool.Size.Height {
		pool.Size.Height = bottom
	}
}
