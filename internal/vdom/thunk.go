package vdom

import (
	"errors"
	"fmt"
)

// ErrInvalidThunk is wrapped by InvalidThunkError.
var ErrInvalidThunk = errors.New("thunk did not return a valid node")

// InvalidThunkError reports a thunk whose render produced something other
// than an element, text or widget.
type InvalidThunkError struct {
	Value Node
}

func (e *InvalidThunkError) Error() string {
	return fmt.Sprintf("%v: got %T", ErrInvalidThunk, e.Value)
}

func (e *InvalidThunkError) Unwrap() error { return ErrInvalidThunk }

// Thunk defers building a subtree. Render runs at most once per Thunk and
// receives the node the thunk replaces in the previous tree (possibly
// another *Thunk), which lets it reuse earlier work.
type Thunk struct {
	Key  string
	Args []any

	render func(previous Node) Node
	vnode  Node
}

func (*Thunk) isNode() {}

// NewThunk creates a thunk around render.
func NewThunk(render func(previous Node) Node) *Thunk {
	return &Thunk{render: render}
}

// Memo creates a thunk that returns the previous thunk's rendered node when
// that thunk has the same key and identical args, and calls render otherwise.
func Memo(key string, args []any, render func() Node) *Thunk {
	t := &Thunk{Key: key, Args: args}
	t.render = func(previous Node) Node {
		if prev, ok := previous.(*Thunk); ok && prev.vnode != nil && prev.Key == key && sameArgs(prev.Args, args) {
			return prev.vnode
		}
		return render()
	}
	return t
}

// Rendered returns the memoized output, or nil before the first render.
func (t *Thunk) Rendered() Node { return t.vnode }

func (t *Thunk) renderOnce(previous Node) (Node, error) {
	if t.vnode == nil {
		t.vnode = t.render(previous)
	}
	switch t.vnode.(type) {
	case *VNode, *VText, Widget:
		return t.vnode, nil
	}
	return nil, &InvalidThunkError{Value: t.vnode}
}

// handleThunk resolves either side of a diff pair that is a thunk.
func handleThunk(a, b Node) (Node, Node, error) {
	renderedA, renderedB := a, b
	if tb, ok := b.(*Thunk); ok {
		n, err := tb.renderOnce(a)
		if err != nil {
			return nil, nil, err
		}
		renderedB = n
	}
	if ta, ok := a.(*Thunk); ok {
		n, err := ta.renderOnce(nil)
		if err != nil {
			return nil, nil, err
		}
		renderedA = n
	}
	return renderedA, renderedB, nil
}

func sameArgs(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !identical(a[i], b[i]) {
			return false
		}
	}
	return true
}
