package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/dom"
	"github.com/inamate/stage/internal/dom/htmldom"
)

func TestApplyRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		a, b func(t *testing.T) Node
	}{
		{
			"props and text",
			func(t *testing.T) Node { return mustH(t, "div", Props{"className": "a"}, "x") },
			func(t *testing.T) Node { return mustH(t, "div", Props{"className": "b"}, "y") },
		},
		{
			"insert children",
			func(t *testing.T) Node { return mustH(t, "div", nil) },
			func(t *testing.T) Node { return mustH(t, "div", nil, mustH(t, "span", nil), mustH(t, "span", nil)) },
		},
		{
			"remove children",
			func(t *testing.T) Node { return mustH(t, "div", nil, mustH(t, "b", nil, "1"), mustH(t, "i", nil, "2")) },
			func(t *testing.T) Node { return mustH(t, "div", nil, mustH(t, "b", nil, "1")) },
		},
		{
			"replace element with text",
			func(t *testing.T) Node { return mustH(t, "p", nil, mustH(t, "em", nil, "x")) },
			func(t *testing.T) Node { return mustH(t, "p", nil, "x") },
		},
		{
			"replace text with element",
			func(t *testing.T) Node { return mustH(t, "p", nil, "x") },
			func(t *testing.T) Node { return mustH(t, "p", nil, mustH(t, "em", nil, "x")) },
		},
		{
			"style channels",
			func(t *testing.T) Node {
				return mustH(t, "div", Props{"style": Style{"left": "10%", "top": "5%", "backgroundColor": "red"}})
			},
			func(t *testing.T) Node {
				return mustH(t, "div", Props{"style": Style{"left": "20%", "backgroundColor": "red"}})
			},
		},
		{
			"style removed",
			func(t *testing.T) Node { return mustH(t, "div", Props{"style": Style{"left": "10%"}}) },
			func(t *testing.T) Node { return mustH(t, "div", nil) },
		},
		{
			"attributes",
			func(t *testing.T) Node {
				return mustH(t, "div", Props{"attributes": Attributes{"data-a": "1", "data-b": "2"}})
			},
			func(t *testing.T) Node { return mustH(t, "div", Props{"attributes": Attributes{"data-b": "3"}}) },
		},
		{
			"string prop removed",
			func(t *testing.T) Node { return mustH(t, "div", Props{"title": "hello"}) },
			func(t *testing.T) Node { return mustH(t, "div", nil) },
		},
		{
			"root replaced",
			func(t *testing.T) Node { return mustH(t, "div", nil, "x") },
			func(t *testing.T) Node { return mustH(t, "section", nil, "x") },
		},
		{
			"namespaced",
			func(t *testing.T) Node {
				return mustH(t, "svg", Props{"namespace": "http://www.w3.org/2000/svg"},
					mustH(t, "rect", Props{"namespace": "http://www.w3.org/2000/svg", "attributes": Attributes{"width": "1"}}))
			},
			func(t *testing.T) Node {
				return mustH(t, "svg", Props{"namespace": "http://www.w3.org/2000/svg"},
					mustH(t, "rect", Props{"namespace": "http://www.w3.org/2000/svg", "attributes": Attributes{"width": "2"}}))
			},
		},
		{
			"nested growth",
			func(t *testing.T) Node { return mustH(t, "div", nil, mustH(t, "div", nil, "a"), "tail") },
			func(t *testing.T) Node {
				return mustH(t, "div", nil, mustH(t, "div", nil, "a", mustH(t, "span", nil, "b")), "tail", "more")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patched, want := roundTrip(t, tt.a(t), tt.b(t))
			assert.Equal(t, want, htmlOf(patched))
		})
	}
}

func TestApplyNoPatchesLeavesTree(t *testing.T) {
	doc := htmldom.NewDocument()
	a := mustH(t, "div", Props{"id": "x"}, "text")
	root := realize(t, doc, a)
	before := htmlOf(root)

	ps, err := Diff(a, a)
	require.NoError(t, err)
	got, err := Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)

	assert.Same(t, root, got)
	assert.Equal(t, before, htmlOf(got))
}

func TestApplyKeyedReorderKeepsNodes(t *testing.T) {
	doc := htmldom.NewDocument()
	a := mustH(t, "ul", nil, keyedItems(t, "a", "b", "c"))
	b := mustH(t, "ul", nil, keyedItems(t, "c", "a", "b"))
	root := realize(t, doc, a)
	before := root.ChildNodes()

	ps, err := Diff(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Count()[PatchOrder])

	got, err := Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)

	after := got.ChildNodes()
	require.Len(t, after, 3)
	assert.Same(t, before[2], after[0])
	assert.Same(t, before[0], after[1])
	assert.Same(t, before[1], after[2])
}

func TestApplyRootRemoved(t *testing.T) {
	doc := htmldom.NewDocument()
	parent := doc.CreateElement("body")
	a := mustH(t, "div", nil)
	root := realize(t, doc, a)
	parent.AppendChild(root)

	ps, err := Diff(a, nil)
	require.NoError(t, err)
	got, err := Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)

	assert.Nil(t, got)
	assert.Empty(t, parent.ChildNodes())
}

func TestApplyRootReplacedInParent(t *testing.T) {
	doc := htmldom.NewDocument()
	parent := doc.CreateElement("body")
	a := mustH(t, "div", nil)
	b := mustH(t, "main", nil)
	root := realize(t, doc, a)
	parent.AppendChild(root)

	ps, err := Diff(a, b)
	require.NoError(t, err)
	got, err := Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)

	assert.NotSame(t, root, got)
	assert.Equal(t, "<body><main></main></body>", htmlOf(parent))
}

func TestApplySkipsMissingIndex(t *testing.T) {
	doc := htmldom.NewDocument()
	a := mustH(t, "div", nil, "x")
	root := realize(t, doc, a)

	ps := &PatchSet{Root: a, Patches: map[int][]Patch{
		7: {{Kind: PatchText, Next: NewText("never")}},
	}}
	got, err := Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)
	assert.Equal(t, "<div>x</div>", htmlOf(got))
}

func TestApplyWidgetLifecycle(t *testing.T) {
	t.Run("same type updates in place", func(t *testing.T) {
		updated, destroyed := 0, 0
		doc := htmldom.NewDocument()
		a := mustH(t, "div", nil, &labelWidget{label: "one", updated: &updated, destroyed: &destroyed})
		b := mustH(t, "div", nil, &labelWidget{label: "two", updated: &updated, destroyed: &destroyed})
		root := realize(t, doc, a)
		canvas := root.ChildNodes()[0]

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.Equal(t, 1, updated)
		assert.Zero(t, destroyed)
		assert.Same(t, canvas, root.ChildNodes()[0])
		assert.Equal(t, `<div><canvas data-label="two"></canvas></div>`, htmlOf(root))
	})

	t.Run("removed widget is destroyed once", func(t *testing.T) {
		updated, destroyed := 0, 0
		doc := htmldom.NewDocument()
		a := mustH(t, "div", nil, &labelWidget{label: "one", updated: &updated, destroyed: &destroyed})
		b := mustH(t, "div", nil)
		root := realize(t, doc, a)

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.Equal(t, 1, destroyed)
		assert.Equal(t, "<div></div>", htmlOf(root))
	})

	t.Run("widget in removed subtree is destroyed", func(t *testing.T) {
		updated, destroyed := 0, 0
		doc := htmldom.NewDocument()
		a := mustH(t, "div", nil, mustH(t, "section", nil, &labelWidget{label: "one", updated: &updated, destroyed: &destroyed}))
		b := mustH(t, "div", nil)
		root := realize(t, doc, a)

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.Equal(t, 1, destroyed)
		assert.Equal(t, "<div></div>", htmlOf(root))
	})

	t.Run("widget replaced by element is destroyed", func(t *testing.T) {
		updated, destroyed := 0, 0
		doc := htmldom.NewDocument()
		a := mustH(t, "div", nil, &labelWidget{label: "one", updated: &updated, destroyed: &destroyed})
		b := mustH(t, "div", nil, mustH(t, "p", nil))
		root := realize(t, doc, a)

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.Equal(t, 1, destroyed)
		assert.Equal(t, "<div><p></p></div>", htmlOf(root))
	})

	t.Run("different ids replace", func(t *testing.T) {
		doc := htmldom.NewDocument()
		a := mustH(t, "div", nil, &idWidget{id: "a"})
		b := mustH(t, "div", nil, &idWidget{id: "b"})
		root := realize(t, doc, a)
		old := root.ChildNodes()[0]

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.NotSame(t, old, root.ChildNodes()[0])
		assert.Equal(t, `<div><output data-id="b"></output></div>`, htmlOf(root))
	})
}

func TestApplyEventHooks(t *testing.T) {
	doc := htmldom.NewDocument()
	var got []string
	a := mustH(t, "button", Props{"ev-click": func(e dom.Event) { got = append(got, "a:"+e.Value) }})
	b := mustH(t, "button", Props{"ev-click": func(e dom.Event) { got = append(got, "b:"+e.Value) }})
	c := mustH(t, "button", nil)

	root := realize(t, doc, a).(*htmldom.Node)
	require.True(t, root.Dispatch(dom.Event{Type: "click", Value: "1"}))

	ps, err := Diff(a, b)
	require.NoError(t, err)
	_, err = Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)
	require.True(t, root.Dispatch(dom.Event{Type: "click", Value: "2"}))

	ps, err = Diff(b, c)
	require.NoError(t, err)
	_, err = Apply(root, ps, &Options{Document: doc})
	require.NoError(t, err)
	assert.False(t, root.Dispatch(dom.Event{Type: "click", Value: "3"}))

	assert.Equal(t, []string{"a:1", "b:2"}, got)
}

func TestApplyRemovalCleansNestedState(t *testing.T) {
	t.Run("hook and widget", func(t *testing.T) {
		updated, destroyed := 0, 0
		doc := htmldom.NewDocument()
		a := mustH(t, "div", nil, mustH(t, "section", nil,
			mustH(t, "button", Props{"ev-click": func(dom.Event) {}}),
			&labelWidget{label: "w", updated: &updated, destroyed: &destroyed},
		))
		b := mustH(t, "div", nil)

		root := realize(t, doc, a)
		button := root.ChildNodes()[0].ChildNodes()[0].(*htmldom.Node)
		require.True(t, button.Dispatch(dom.Event{Type: "click"}))

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.False(t, button.Dispatch(dom.Event{Type: "click"}))
		assert.Equal(t, 1, destroyed)
		assert.Zero(t, updated)
		assert.Equal(t, "<div></div>", htmlOf(root))
	})

	t.Run("thunk", func(t *testing.T) {
		doc := htmldom.NewDocument()
		thunk := NewThunk(func(Node) Node {
			return mustH(t, "button", Props{"ev-click": func(dom.Event) {}})
		})
		a := mustH(t, "div", nil, mustH(t, "section", nil, thunk))
		b := mustH(t, "div", nil)

		root := realize(t, doc, a)
		button := root.ChildNodes()[0].ChildNodes()[0].(*htmldom.Node)
		require.True(t, button.Dispatch(dom.Event{Type: "click"}))

		ps, err := Diff(a, b)
		require.NoError(t, err)
		_, err = Apply(root, ps, &Options{Document: doc})
		require.NoError(t, err)

		assert.False(t, button.Dispatch(dom.Event{Type: "click"}))
		assert.Equal(t, "<div></div>", htmlOf(root))
	})
}

func TestApplyCustomPatch(t *testing.T) {
	doc := htmldom.NewDocument()
	a := mustH(t, "div", nil, "x")
	b := mustH(t, "div", nil, "y")
	root := realize(t, doc, a)

	calls := 0
	opts := &Options{
		Document: doc,
		Patch: func(root dom.Node, ps *PatchSet, opts *Options) (dom.Node, error) {
			calls++
			return root, nil
		},
	}
	ps, err := Diff(a, b)
	require.NoError(t, err)
	_, err = Apply(root, ps, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "<div>x</div>", htmlOf(root))
}

func TestRenderInvalidWarns(t *testing.T) {
	var warned []any
	opts := &Options{
		Document: htmldom.NewDocument(),
		Warn:     func(_ string, v any) { warned = append(warned, v) },
	}
	n, err := Render(nil, opts)
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Len(t, warned, 1)
}

func TestRenderWithoutDocument(t *testing.T) {
	_, err := Render(NewText("x"), nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}
