package match

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch matches any *TypeMismatchError via errors.Is.
var ErrTypeMismatch = errors.New("unexpected formula node")

// TypeMismatchError reports a node of unknown shape reaching Entails.
// Formula is sealed, so this is an internal invariant violation.
type TypeMismatchError struct {
	Role string // "candidate" or "query"
	Node any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("unexpected %s formula node %T", e.Role, e.Node)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
