package vdom

import (
	"errors"

	"github.com/inamate/stage/internal/dom"
)

// ErrNoDocument is returned when a node has to be created without a document.
var ErrNoDocument = errors.New("vdom: no document to create nodes in")

// Render realizes n as a live node, recursively creating and attaching its
// children. Input that is not a node is reported through opts.Warn and
// yields a nil node so the caller can skip it. The only errors are a thunk
// rendering an invalid value and a missing document.
func Render(n Node, opts *Options) (dom.Node, error) {
	if opts == nil || opts.Document == nil {
		return nil, ErrNoDocument
	}
	if t, ok := n.(*Thunk); ok {
		r, err := t.renderOnce(nil)
		if err != nil {
			return nil, err
		}
		n = r
	}

	switch x := n.(type) {
	case Widget:
		return x.Init(opts.Document), nil
	case *VText:
		return opts.Document.CreateTextNode(x.Text), nil
	case *VNode:
		var node dom.Node
		if x.Namespace != "" {
			node = opts.Document.CreateElementNS(x.Namespace, x.Tag)
		} else {
			node = opts.Document.CreateElement(x.Tag)
		}
		applyProperties(node, x.Props, nil)
		for _, child := range x.Children {
			c, err := Render(child, opts)
			if err != nil {
				return nil, err
			}
			if c != nil {
				node.AppendChild(c)
			}
		}
		return node, nil
	}

	if opts.Warn != nil {
		opts.Warn("item is not a valid virtual node", n)
	}
	Logger().Debug("render skipped invalid node", "type", typeName(n))
	return nil, nil
}
