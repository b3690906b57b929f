//go:build js && wasm

// Package jsdom implements the dom display tree on the browser DOM through
// syscall/js.
package jsdom

import (
	"fmt"
	"syscall/js"

	"github.com/inamate/stage/internal/dom"
)

// idProp tags DOM nodes with a numeric id. js.Value is not comparable, so
// wrappers are found by this id.
const idProp = "__stageNode"

// Document wraps a browser document. Wrappers are owned by the wrapper of
// their parent, so removed subtrees are collected along with their wrappers
// while a detached subtree keeps its identities until reinserted.
type Document struct {
	v     js.Value
	roots map[int]*Node
	next  int
}

// New wraps the global document.
func New() *Document {
	return NewDocument(js.Global().Get("document"))
}

// NewDocument wraps doc.
func NewDocument(doc js.Value) *Document {
	return &Document{v: doc, roots: make(map[int]*Node)}
}

// Node wraps one DOM node.
type Node struct {
	doc      *Document
	v        js.Value
	id       int
	handlers map[string]js.Func

	parent *Node
	kids   map[int]*Node
}

var _ dom.Node = (*Node)(nil)

// Body returns the document body.
func (d *Document) Body() *Node {
	return d.attached(d.v.Get("body"))
}

func (d *Document) CreateElement(tag string) dom.Node {
	return d.newNode(d.v.Call("createElement", tag))
}

func (d *Document) CreateElementNS(namespace, tag string) dom.Node {
	return d.newNode(d.v.Call("createElementNS", namespace, tag))
}

func (d *Document) CreateTextNode(text string) dom.Node {
	return d.newNode(d.v.Call("createTextNode", text))
}

func (d *Document) idOf(v js.Value) int {
	if id := v.Get(idProp); id.Type() == js.TypeNumber {
		return id.Int()
	}
	d.next++
	v.Set(idProp, d.next)
	return d.next
}

func (d *Document) newNode(v js.Value) *Node {
	return &Node{doc: d, v: v, id: d.idOf(v)}
}

// attached returns the wrapper of v found by walking down from the top of
// its tree.
func (d *Document) attached(v js.Value) *Node {
	if isNull(v) {
		return nil
	}
	parent := v.Get("parentNode")
	if isNull(parent) {
		id := d.idOf(v)
		w, ok := d.roots[id]
		if !ok {
			w = &Node{doc: d, v: v, id: id}
			d.roots[id] = w
		}
		return w
	}
	return d.attached(parent).child(v)
}

// child returns the wrapper of c, a current child of n.
func (n *Node) child(c js.Value) *Node {
	id := n.doc.idOf(c)
	if w, ok := n.kids[id]; ok {
		return w
	}
	w := &Node{doc: n.doc, v: c, id: id}
	n.adopt(w)
	return w
}

func (n *Node) adopt(c *Node) {
	if c.parent != nil && c.parent != n {
		delete(c.parent.kids, c.id)
	}
	if n.kids == nil {
		n.kids = make(map[int]*Node)
	}
	c.parent = n
	n.kids[c.id] = c
}

func (n *Node) release(c *Node) {
	delete(n.kids, c.id)
	c.parent = nil
}

func isNull(v js.Value) bool {
	return v.IsNull() || v.IsUndefined()
}

// Value returns the wrapped DOM node.
func (n *Node) Value() js.Value { return n.v }

// ClientSize returns the rendered size of an element in CSS pixels.
func (n *Node) ClientSize() (float64, float64) {
	return n.v.Get("clientWidth").Float(), n.v.Get("clientHeight").Float()
}

func (n *Node) Parent() dom.Node {
	p := n.v.Get("parentNode")
	if isNull(p) {
		return nil
	}
	if n.parent == nil || !n.parent.v.Equal(p) {
		n.doc.attached(p).adopt(n)
	}
	return n.parent
}

func (n *Node) ChildNodes() []dom.Node {
	list := n.v.Get("childNodes")
	out := make([]dom.Node, list.Length())
	for i := range out {
		out[i] = n.child(list.Index(i))
	}
	return out
}

func (n *Node) AppendChild(child dom.Node) {
	c := asNode(child)
	if c == nil {
		return
	}
	n.v.Call("appendChild", c.v)
	n.adopt(c)
}

func (n *Node) RemoveChild(child dom.Node) {
	c := asNode(child)
	if c == nil || !c.v.Get("parentNode").Equal(n.v) {
		return
	}
	n.v.Call("removeChild", c.v)
	n.release(c)
}

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) {
	nc, oc := asNode(newChild), asNode(oldChild)
	if nc == nil || oc == nil || !oc.v.Get("parentNode").Equal(n.v) {
		return
	}
	n.v.Call("replaceChild", nc.v, oc.v)
	n.release(oc)
	n.adopt(nc)
}

func (n *Node) InsertBefore(child, ref dom.Node) {
	c := asNode(child)
	if c == nil {
		return
	}
	r := js.Null()
	if rn := asNode(ref); rn != nil {
		r = rn.v
	}
	n.v.Call("insertBefore", c.v, r)
	n.adopt(c)
}

func (n *Node) IsText() bool {
	return n.v.Get("nodeType").Int() == 3
}

func (n *Node) ReplaceData(text string) {
	n.v.Call("replaceData", 0, n.v.Get("length").Int(), text)
}

// Property returns the live property converted to a Go value. Strings,
// numbers and booleans convert; null and undefined become nil.
func (n *Node) Property(name string) any {
	v := n.v.Get(name)
	switch v.Type() {
	case js.TypeString:
		return v.String()
	case js.TypeNumber:
		return v.Float()
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNull, js.TypeUndefined:
		return nil
	}
	return v
}

func (n *Node) SetProperty(name string, value any) {
	if value == nil {
		n.v.Set(name, js.Null())
		return
	}
	n.v.Set(name, toJS(value))
}

func (n *Node) SetAttribute(name, value string) {
	n.v.Call("setAttribute", name, value)
}

func (n *Node) RemoveAttribute(name string) {
	n.v.Call("removeAttribute", name)
}

func (n *Node) SetStyle(name, value string) {
	n.v.Get("style").Set(name, value)
}

// SetHandler binds h as the listener for event. The previous listener is
// removed and its callback released.
func (n *Node) SetHandler(event string, h dom.Handler) {
	if fn, ok := n.handlers[event]; ok {
		n.v.Call("removeEventListener", event, fn)
		fn.Release()
		delete(n.handlers, event)
	}
	if h == nil {
		return
	}
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := dom.Event{Type: event}
		if len(args) > 0 {
			if target := args[0].Get("target"); !target.IsUndefined() && !target.IsNull() {
				if v := target.Get("value"); v.Type() == js.TypeString {
					ev.Value = v.String()
				}
			}
		}
		h(ev)
		return nil
	})
	if n.handlers == nil {
		n.handlers = make(map[string]js.Func)
	}
	n.handlers[event] = fn
	n.v.Call("addEventListener", event, fn)
}

func asNode(n dom.Node) *Node {
	jn, ok := n.(*Node)
	if !ok || jn == nil {
		return nil
	}
	return jn
}

func toJS(v any) any {
	switch x := v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, js.Value:
		return x
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = toJS(e)
		}
		return m
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
