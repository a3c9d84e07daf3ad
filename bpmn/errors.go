package bpmn

import (
	"errors"
	"fmt"
)

// ErrMalformedInput matches every error returned for text that is not a
// well-formed XML document.
var ErrMalformedInput = errors.New("malformed BPMN input")

// ParseError describes why the input could not be read.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse BPMN file: %s: %v", e.Reason, e.Err)
	}
	return "failed to parse BPMN file: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}
