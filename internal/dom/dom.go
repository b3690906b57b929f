// Package dom defines the live display tree the virtual tree is reconciled
// into. Implementations wrap a browser DOM (jsdom) or an in-memory HTML tree
// (htmldom). Node values must be comparable: the same live node always yields
// the same Node value so identity checks hold across calls.
package dom

// Event is delivered to handlers bound through event hooks.
type Event struct {
	Type  string
	Value string
}

// Handler receives display tree events.
type Handler func(Event)

// Document creates display nodes.
type Document interface {
	CreateElement(tag string) Node
	CreateElementNS(namespace, tag string) Node
	CreateTextNode(text string) Node
}

// Node is a single live display node (element or text).
type Node interface {
	// Parent returns the parent node, or nil when detached.
	Parent() Node
	// ChildNodes returns the current children in order.
	ChildNodes() []Node
	AppendChild(child Node)
	RemoveChild(child Node)
	ReplaceChild(newChild, oldChild Node)
	// InsertBefore inserts child before ref; a nil ref appends.
	InsertBefore(child, ref Node)

	// IsText reports whether the node holds character data.
	IsText() bool
	// ReplaceData replaces the whole text content of a text node.
	ReplaceData(text string)

	// Property returns a previously set property, or nil.
	Property(name string) any
	// SetProperty assigns a plain property value; nil clears it.
	SetProperty(name string, value any)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	// SetStyle sets one style channel; an empty value resets it.
	SetStyle(name, value string)

	// SetHandler binds h for the named event; a nil h unbinds it.
	SetHandler(event string, h Handler)
}
