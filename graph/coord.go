package graph

// Minimum offsets of a node inside its participant, keeping it clear of the
// participant header and the lane gutter.
const (
	PadLeft = 80
	PadTop  = 30
)

// Point is a position in graph space: relative to the parent origin when the
// node has a parent, absolute otherwise.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AbsPoint is a position in diagram space.
type AbsPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToAbsolute resolves the diagram-space origin of a node by adding the
// positions of every owner up its parent chain.
func (g *Graph) ToAbsolute(n *Node) AbsPoint {
	return toAbsolute(g.Index(), n)
}

func toAbsolute(index map[string]*Node, n *Node) AbsPoint {
	abs := AbsPoint{X: n.Position.X, Y: n.Position.Y}
	seen := map[string]struct{}{n.ID: {}}
	parentID := n.ParentID
	for parentID != "" {
		if _, loop := seen[parentID]; loop {
			break
		}
		parent, ok := index[parentID]
		if !ok {
			break
		}
		seen[parentID] = struct{}{}
		abs.X += parent.Position.X
		abs.Y += parent.Position.Y
		parentID = parent.ParentID
	}
	return abs
}

// ToRelative expresses an absolute point relative to the origin of owner.
func ToRelative(abs AbsPoint, owner AbsPoint) Point {
	return Point{X: abs.X - owner.X, Y: abs.Y - owner.Y}
}

// ClampToParent keeps a relative point clear of the participant header and
// lane gutter.
func ClampToParent(p Point) Point {
	if p.X < PadLeft {
		p.X = PadLeft
	}
	if p.Y < PadTop {
		p.Y = PadTop
	}
	return p
}

// SizeOf is the node size, falling back to the default for its kind.
func SizeOf(n *Node) Size {
	if n.Size != nil {
		return *n.Size
	}
	return n.Effective().DefaultSize()
}

// AbsBounds is the diagram-space box of a node: the imported bounds when
// present, else its resolved origin and size.
func (g *Graph) AbsBounds(n *Node) Bounds {
	return absBounds(g.Index(), n)
}

func absBounds(index map[string]*Node, n *Node) Bounds {
	if b := n.Metadata.Bounds; b != nil {
		return *b
	}
	origin := toAbsolute(index, n)
	size := SizeOf(n)
	return Bounds{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Resolver answers ownership and coordinate questions against a fixed node
// set without rebuilding the id index on every call.
type Resolver struct {
	index map[string]*Node
}

func (g *Graph) Resolver() *Resolver {
	return &Resolver{index: g.Index()}
}

func (r *Resolver) Node(id string) (*Node, bool) {
	n, ok := r.index[id]
	return n, ok
}

func (r *Resolver) OwnerID(id string) string {
	if p, ok := participantOf(r.index, id); ok {
		return p.ID
	}
	return ""
}

func (r *Resolver) ToAbsolute(n *Node) AbsPoint {
	return toAbsolute(r.index, n)
}

func (r *Resolver) AbsBounds(n *Node) Bounds {
	return absBounds(r.index, n)
}
