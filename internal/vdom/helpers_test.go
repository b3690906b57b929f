package vdom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/dom"
	"github.com/inamate/stage/internal/dom/htmldom"
)

func mustH(t testing.TB, selector string, props Props, children ...any) *VNode {
	t.Helper()
	v, err := H(selector, props, children...)
	require.NoError(t, err)
	return v
}

func realize(t testing.TB, doc *htmldom.Document, n Node) dom.Node {
	t.Helper()
	node, err := Render(n, &Options{Document: doc})
	require.NoError(t, err)
	require.NotNil(t, node)
	return node
}

// roundTrip patches a live tree realized from a towards b and returns it
// with the HTML of a tree freshly realized from b.
func roundTrip(t testing.TB, a, b Node) (patched dom.Node, want string) {
	t.Helper()
	doc := htmldom.NewDocument()
	root := realize(t, doc, a)

	ps, err := Diff(a, b)
	require.NoError(t, err)
	patched, err = Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)

	return patched, htmldom.String(realize(t, htmldom.NewDocument(), b))
}

type labelWidget struct {
	WidgetBase
	label     string
	updated   *int
	destroyed *int
}

func (w *labelWidget) Init(doc dom.Document) dom.Node {
	n := doc.CreateElement("canvas")
	n.SetAttribute("data-label", w.label)
	return n
}

func (w *labelWidget) Update(_ Widget, node dom.Node) dom.Node {
	*w.updated++
	node.SetAttribute("data-label", w.label)
	return nil
}

func (w *labelWidget) Destroy(dom.Node) {
	*w.destroyed++
}

type idWidget struct {
	WidgetBase
	id string
}

func (w *idWidget) Init(doc dom.Document) dom.Node {
	n := doc.CreateElement("output")
	n.SetAttribute("data-id", w.id)
	return n
}

func (w *idWidget) WidgetID() string { return w.id }

func htmlOf(n dom.Node) string { return htmldom.String(n) }

func newDoc() *htmldom.Document { return htmldom.NewDocument() }
