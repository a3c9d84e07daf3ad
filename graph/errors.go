package graph

import "fmt"

// ReferenceError reports an id pointing at nothing.
type ReferenceError struct {
	Owner string
	Ref   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s references missing node %q", e.Owner, e.Ref)
}

type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate id %q", e.ID)
}
