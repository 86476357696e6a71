package ast

import (
	"errors"
	"fmt"
)

var (
	ErrFrozenTree            = errors.New("tree is frozen")
	ErrAmbiguityInFrozenTree = errors.New("ambiguous node cannot be frozen")
)

// FrozenTreeError is returned by every mutator called on a frozen node.
type FrozenTreeError struct {
	Node NodeID
	Op   string
}

func (e *FrozenTreeError) Error() string {
	return fmt.Sprintf("%s on node %d: %s", e.Op, e.Node, ErrFrozenTree)
}

func (e *FrozenTreeError) Unwrap() error { return ErrFrozenTree }

// AmbiguityError reports the ambiguous node that blocked a freeze.
type AmbiguityError struct {
	Node NodeID
	Kind Kind
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s at node %d: %s", e.Kind, e.Node, ErrAmbiguityInFrozenTree)
}

func (e *AmbiguityError) Unwrap() error { return ErrAmbiguityInFrozenTree }
