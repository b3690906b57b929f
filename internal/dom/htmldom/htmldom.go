// Package htmldom implements the dom display tree on top of
// golang.org/x/net/html nodes. It backs headless rendering on the server and
// the round-trip tests of the vdom package.
package htmldom

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/inamate/stage/internal/dom"
)

// Document creates nodes. Wrappers are owned by the wrapper of their parent,
// so a subtree dropped from the tree is collected together with its
// wrappers, and a detached subtree keeps its identities until reinserted.
type Document struct {
	// wrappers for the tops of adopted html trees
	roots map[*html.Node]*Node
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{roots: make(map[*html.Node]*Node)}
}

// Node wraps one html node together with the state HTML cannot express:
// non-attribute properties, style channels and event handlers.
type Node struct {
	doc      *Document
	n        *html.Node
	props    map[string]any
	style    map[string]string
	handlers map[string]dom.Handler

	parent *Node
	kids   map[*html.Node]*Node
}

var _ dom.Node = (*Node)(nil)

// CreateElement creates an element in the HTML namespace.
func (d *Document) CreateElement(tag string) dom.Node {
	tag = strings.ToLower(tag)
	return d.newNode(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// CreateElementNS creates an element in the given namespace, preserving tag case.
func (d *Document) CreateElementNS(namespace, tag string) dom.Node {
	return d.newNode(&html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		Namespace: namespace,
	})
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(text string) dom.Node {
	return d.newNode(&html.Node{Type: html.TextNode, Data: text})
}

func (d *Document) newNode(n *html.Node) *Node {
	return &Node{doc: d, n: n}
}

// Wrap adopts an existing html node (for example a parsed mount point).
// Wrapping several nodes of one parsed tree yields consistent identities.
func (d *Document) Wrap(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	var path []*html.Node
	top := n
	for top.Parent != nil {
		path = append(path, top)
		top = top.Parent
	}
	w, ok := d.roots[top]
	if !ok {
		w = d.newNode(top)
		d.roots[top] = w
	}
	for i := len(path) - 1; i >= 0; i-- {
		w = w.child(path[i])
	}
	return w
}

// child returns the wrapper of c, a current child of n.
func (n *Node) child(c *html.Node) *Node {
	if w, ok := n.kids[c]; ok {
		return w
	}
	w := n.doc.newNode(c)
	n.adopt(w)
	return w
}

// adopt records c as a child wrapper of n, taking it from its previous
// parent wrapper.
func (n *Node) adopt(c *Node) {
	if c.parent != nil && c.parent != n {
		delete(c.parent.kids, c.n)
	}
	if n.kids == nil {
		n.kids = make(map[*html.Node]*Node)
	}
	c.parent = n
	n.kids[c.n] = c
}

// release forgets c; it now owns its subtree alone.
func (n *Node) release(c *Node) {
	delete(n.kids, c.n)
	c.parent = nil
}

// Render writes the HTML serialization of n.
func (d *Document) Render(w io.Writer, n dom.Node) error {
	hn, ok := n.(*Node)
	if !ok || hn == nil {
		return nil
	}
	return html.Render(w, hn.n)
}

// String returns the HTML serialization of n, or "" for a nil node.
func String(n dom.Node) string {
	hn, ok := n.(*Node)
	if !ok || hn == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, hn.n); err != nil {
		return ""
	}
	return buf.String()
}

// HTML returns the underlying html node.
func (n *Node) HTML() *html.Node { return n.n }

func (n *Node) Parent() dom.Node {
	if n.n.Parent == nil {
		return nil
	}
	if n.parent == nil || n.parent.n != n.n.Parent {
		// attached behind our back; rebuild the chain from the top
		n.doc.Wrap(n.n.Parent).adopt(n)
	}
	return n.parent
}

func (n *Node) ChildNodes() []dom.Node {
	var out []dom.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, n.child(c))
	}
	return out
}

func (n *Node) AppendChild(child dom.Node) {
	c := asNode(child)
	if c == nil {
		return
	}
	detach(c.n)
	n.n.AppendChild(c.n)
	n.adopt(c)
}

func (n *Node) RemoveChild(child dom.Node) {
	c := asNode(child)
	if c == nil || c.n.Parent != n.n {
		return
	}
	n.n.RemoveChild(c.n)
	n.release(c)
}

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) {
	nc, oc := asNode(newChild), asNode(oldChild)
	if nc == nil || oc == nil || oc.n.Parent != n.n || nc.n == oc.n {
		return
	}
	detach(nc.n)
	n.n.InsertBefore(nc.n, oc.n)
	n.n.RemoveChild(oc.n)
	n.release(oc)
	n.adopt(nc)
}

func (n *Node) InsertBefore(child, ref dom.Node) {
	c := asNode(child)
	if c == nil {
		return
	}
	r := unwrap(ref)
	if r == c.n {
		return
	}
	detach(c.n)
	if r != nil && r.Parent != n.n {
		r = nil
	}
	n.n.InsertBefore(c.n, r)
	n.adopt(c)
}

func (n *Node) IsText() bool { return n.n.Type == html.TextNode }

func (n *Node) ReplaceData(text string) {
	if n.n.Type == html.TextNode {
		n.n.Data = text
	}
}

// Text returns the data of a text node.
func (n *Node) Text() string { return n.n.Data }

// Tag returns the element tag name.
func (n *Node) Tag() string { return n.n.Data }

func (n *Node) Property(name string) any {
	return n.props[name]
}

func (n *Node) SetProperty(name string, value any) {
	if value == nil {
		delete(n.props, name)
		n.RemoveAttribute(attributeName(name))
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	// An empty string is how a removed string property is reset; it leaves
	// no attribute behind.
	if s, ok := formatValue(value); ok && (s != "" || value == true) {
		n.SetAttribute(attributeName(name), s)
	} else {
		n.RemoveAttribute(attributeName(name))
	}
}

// Attribute returns an attribute value and whether it is present.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute keeps attributes sorted by name so serialization does not
// depend on the order properties were applied in.
func (n *Node) SetAttribute(name, value string) {
	if n.n.Type != html.ElementNode {
		return
	}
	i := sort.Search(len(n.n.Attr), func(i int) bool { return n.n.Attr[i].Key >= name })
	if i < len(n.n.Attr) && n.n.Attr[i].Key == name {
		n.n.Attr[i].Val = value
		return
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{})
	copy(n.n.Attr[i+1:], n.n.Attr[i:])
	n.n.Attr[i] = html.Attribute{Key: name, Val: value}
}

func (n *Node) RemoveAttribute(name string) {
	for i, a := range n.n.Attr {
		if a.Key == name {
			n.n.Attr = append(n.n.Attr[:i], n.n.Attr[i+1:]...)
			return
		}
	}
}

// Style returns one style channel, or "" when unset.
func (n *Node) Style(name string) string {
	return n.style[name]
}

func (n *Node) SetStyle(name, value string) {
	if value == "" {
		delete(n.style, name)
	} else {
		if n.style == nil {
			n.style = make(map[string]string)
		}
		n.style[name] = value
	}
	if len(n.style) == 0 {
		n.RemoveAttribute("style")
		return
	}
	keys := make([]string, 0, len(n.style))
	for k := range n.style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(kebab(k))
		b.WriteString(": ")
		b.WriteString(n.style[k])
		b.WriteByte(';')
	}
	n.SetAttribute("style", b.String())
}

func (n *Node) SetHandler(event string, h dom.Handler) {
	if h == nil {
		delete(n.handlers, event)
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[string]dom.Handler)
	}
	n.handlers[event] = h
}

// Dispatch delivers ev to the handler bound for ev.Type and reports whether
// one was bound.
func (n *Node) Dispatch(ev dom.Event) bool {
	h, ok := n.handlers[ev.Type]
	if !ok {
		return false
	}
	h(ev)
	return true
}

func asNode(n dom.Node) *Node {
	hn, ok := n.(*Node)
	if !ok || hn == nil {
		return nil
	}
	return hn
}

func unwrap(n dom.Node) *html.Node {
	if hn := asNode(n); hn != nil {
		return hn.n
	}
	return nil
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func attributeName(prop string) string {
	switch prop {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return strings.ToLower(prop)
}

func formatValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		if x {
			return "", true
		}
		return "", false
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	}
	return "", false
}

// kebab converts a camelCase style channel to its CSS property name.
func kebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
