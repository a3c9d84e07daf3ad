package graph

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func (p Point) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.X, validation.Min(0.0)),
		validation.Field(&p.Y, validation.Min(0.0)),
	)
}

func (s Size) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Width, validation.Min(0.0)),
		validation.Field(&s.Height, validation.Min(0.0)),
	)
}

func (n Node) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required),
		validation.Field(&n.Kind, validation.By(validKind)),
		validation.Field(&n.Variant, validation.By(validVariant)),
		validation.Field(&n.Position),
		validation.Field(&n.Size),
	)
}

func (e Edge) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Source, validation.Required),
		validation.Field(&e.Target, validation.Required),
		validation.Field(&e.FlowKind, validation.In(FlowKind(""), SequenceFlow, MessageFlow)),
	)
}

func validKind(value interface{}) error {
	if k, _ := value.(Kind); !k.Valid() {
		return fmt.Errorf("unknown kind %d", int32(k))
	}
	return nil
}

func validVariant(value interface{}) error {
	k, _ := value.(Kind)
	if k == KindUnknown || k.Valid() {
		return nil
	}
	return fmt.Errorf("unknown variant %d", int32(k))
}

// Validate checks the structural rules of the graph: field rules per node and
// edge, unique ids, ownership references and flow kinds matching ownership.
func (g *Graph) Validate() error {
	errs := validation.Errors{}
	index := make(map[string]*Node, len(g.Nodes))
	for i, n := range g.Nodes {
		if n == nil {
			errs[fmt.Sprintf("nodes[%d]", i)] = errors.New("is empty")
			continue
		}
		if err := n.Validate(); err != nil {
			errs[n.ID] = err
			continue
		}
		if _, dup := index[n.ID]; dup {
			errs[n.ID] = &DuplicateError{ID: n.ID}
			continue
		}
		index[n.ID] = n
	}

	for _, n := range g.Nodes {
		if n == nil {
			continue
		}
		if _, failed := errs[n.ID]; failed {
			continue
		}
		if err := checkOwnership(index, n); err != nil {
			errs[n.ID] = err
		}
	}

	edgeIDs := map[string]struct{}{}
	for i, e := range g.Edges {
		if e == nil {
			errs[fmt.Sprintf("edges[%d]", i)] = errors.New("is empty")
			continue
		}
		if err := e.Validate(); err != nil {
			errs[e.ID] = err
			continue
		}
		if _, dup := edgeIDs[e.ID]; dup {
			errs[e.ID] = &DuplicateError{ID: e.ID}
			continue
		}
		if _, clash := index[e.ID]; clash {
			errs[e.ID] = &DuplicateError{ID: e.ID}
			continue
		}
		edgeIDs[e.ID] = struct{}{}
		if err := checkEdge(index, e); err != nil {
			errs[e.ID] = err
		}
	}

	return errs.Filter()
}

func checkOwnership(index map[string]*Node, n *Node) error {
	if n.ParentID != "" {
		parent, ok := index[n.ParentID]
		if !ok {
			return &ReferenceError{Owner: n.ID, Ref: n.ParentID}
		}
		if !parent.Kind.IsContainer() {
			return fmt.Errorf("parent %s of %s is a %s, not a participant or lane", parent.ID, n.ID, parent.Kind)
		}
		if n.Kind == KindLane && parent.Kind != KindParticipant {
			return fmt.Errorf("lane %s must belong to a participant", n.ID)
		}
	} else if n.Kind == KindLane {
		return fmt.Errorf("lane %s has no participant", n.ID)
	}

	if n.LaneID != "" {
		lane, ok := index[n.LaneID]
		if !ok {
			return &ReferenceError{Owner: n.ID, Ref: n.LaneID}
		}
		if lane.Kind != KindLane {
			return fmt.Errorf("lane reference %s of %s is a %s", lane.ID, n.ID, lane.Kind)
		}
	}
	return nil
}

func checkEdge(index map[string]*Node, e *Edge) error {
	if _, ok := index[e.Source]; !ok {
		return &ReferenceError{Owner: e.ID, Ref: e.Source}
	}
	if _, ok := index[e.Target]; !ok {
		return &ReferenceError{Owner: e.ID, Ref: e.Target}
	}

	var src, dst string
	if p, ok := participantOf(index, e.Source); ok {
		src = p.ID
	}
	if p, ok := participantOf(index, e.Target); ok {
		dst = p.ID
	}
	if e.IsMessage() && src == dst {
		return fmt.Errorf("message flow %s connects nodes of the same owner %q", e.ID, src)
	}
	if !e.IsMessage() && src != dst {
		return fmt.Errorf("sequence flow %s crosses owners %q and %q", e.ID, src, dst)
	}
	return nil
}
