package vdom

import (
	"fmt"
	"reflect"

	"github.com/inamate/stage/internal/dom"
)

// Options configures Apply and Render.
type Options struct {
	// Document creates live nodes. Required for any patch that renders.
	Document dom.Document
	// Render realizes a virtual node. Defaults to Render.
	Render func(n Node, opts *Options) (dom.Node, error)
	// Patch applies a patch set, including the nested sets of thunk
	// patches. Defaults to the recursive index walk.
	Patch func(root dom.Node, ps *PatchSet, opts *Options) (dom.Node, error)
	// Warn receives non-fatal diagnostics such as invalid render input.
	Warn func(msg string, value any)
}

// Apply replays ps against root, the live tree realized from ps.Root, and
// returns the new root. Callers must drop root when the returned node
// differs. Indices with no live node are skipped.
func Apply(root dom.Node, ps *PatchSet, opts *Options) (dom.Node, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.Render == nil {
		o.Render = Render
	}
	if o.Patch == nil {
		o.Patch = patchRecursive
	}
	return o.Patch(root, ps, &o)
}

func patchRecursive(root dom.Node, ps *PatchSet, opts *Options) (dom.Node, error) {
	if !ps.HasPatches() {
		return root, nil
	}
	indices := ps.Indices()
	nodes := domIndex(root, ps.Root, indices)

	for _, index := range indices {
		domNode, ok := nodes[index]
		if !ok {
			Logger().Debug("patch index has no live node", "index", index)
			continue
		}
		for _, p := range ps.Patches[index] {
			newNode, err := applyPatch(p, domNode, opts)
			if err != nil {
				return root, fmt.Errorf("apply %s patch at %d: %w", p.Kind, index, err)
			}
			if sameNode(domNode, root) {
				root = newNode
			}
		}
	}
	return root, nil
}

func applyPatch(p Patch, domNode dom.Node, opts *Options) (dom.Node, error) {
	switch p.Kind {
	case PatchRemove:
		return removeNode(domNode, p.Target), nil
	case PatchInsert:
		return insertNode(domNode, p.Next, opts)
	case PatchText:
		return stringPatch(domNode, p.Next, opts)
	case PatchWidget:
		return widgetPatch(domNode, p.Target, p.Next, opts)
	case PatchReplace:
		return replaceNode(domNode, p.Next, opts)
	case PatchOrder:
		reorderChildren(domNode, p.Moves)
		return domNode, nil
	case PatchProps:
		var previous Props
		if v, ok := p.Target.(*VNode); ok {
			previous = v.Props
		}
		applyProperties(domNode, p.Props, previous)
		return domNode, nil
	case PatchThunk:
		newNode, err := opts.Patch(domNode, p.Thunk, opts)
		if err != nil {
			return domNode, err
		}
		return replaceRoot(domNode, newNode), nil
	}
	return domNode, nil
}

func removeNode(domNode dom.Node, target Node) dom.Node {
	if parent := domNode.Parent(); parent != nil {
		parent.RemoveChild(domNode)
	}
	destroyWidget(domNode, target)
	return nil
}

// insertNode appends to domNode, which is the parent at the patch index.
func insertNode(parent dom.Node, next Node, opts *Options) (dom.Node, error) {
	newNode, err := opts.Render(next, opts)
	if err != nil {
		return parent, err
	}
	if newNode != nil {
		parent.AppendChild(newNode)
	}
	return parent, nil
}

func stringPatch(domNode dom.Node, next Node, opts *Options) (dom.Node, error) {
	if t, ok := next.(*VText); ok && domNode.IsText() {
		domNode.ReplaceData(t.Text)
		return domNode, nil
	}
	return replaceNode(domNode, next, opts)
}

func widgetPatch(domNode dom.Node, previous, next Node, opts *Options) (dom.Node, error) {
	updating := sameWidget(previous, next)

	var newNode dom.Node
	if updating {
		newNode = domNode
		if u, ok := next.(WidgetUpdater); ok {
			if n := u.Update(previous.(Widget), domNode); n != nil {
				newNode = n
			}
		}
	} else {
		var err error
		if newNode, err = opts.Render(next, opts); err != nil {
			return domNode, err
		}
	}

	swap(domNode, newNode)
	if !updating {
		destroyWidget(domNode, previous)
	}
	return newNode, nil
}

func replaceNode(domNode dom.Node, next Node, opts *Options) (dom.Node, error) {
	newNode, err := opts.Render(next, opts)
	if err != nil {
		return domNode, err
	}
	swap(domNode, newNode)
	return newNode, nil
}

func swap(oldNode, newNode dom.Node) {
	if newNode == nil || sameNode(oldNode, newNode) {
		return
	}
	if parent := oldNode.Parent(); parent != nil {
		parent.ReplaceChild(newNode, oldNode)
	}
}

func replaceRoot(oldRoot, newRoot dom.Node) dom.Node {
	if oldRoot != nil && newRoot != nil {
		swap(oldRoot, newRoot)
	}
	return newRoot
}

func destroyWidget(domNode dom.Node, n Node) {
	if d, ok := n.(WidgetDestroyer); ok && isWidget(n) {
		d.Destroy(domNode)
	}
}

// reorderChildren applies moves to the live children of domNode. Removes run
// first and park keyed nodes; inserts then place them, with the insertion
// anchor bounded by a length that grows with every insert.
func reorderChildren(domNode dom.Node, moves *Moves) {
	if moves == nil {
		return
	}
	parked := make(map[string]dom.Node, len(moves.Removes))
	for _, r := range moves.Removes {
		children := domNode.ChildNodes()
		if r.From >= len(children) {
			continue
		}
		node := children[r.From]
		if r.Key != "" {
			parked[r.Key] = node
		}
		domNode.RemoveChild(node)
	}

	length := len(domNode.ChildNodes())
	for _, in := range moves.Inserts {
		node, ok := parked[in.Key]
		if !ok {
			continue
		}
		var ref dom.Node
		if in.To < length {
			ref = domNode.ChildNodes()[in.To]
		}
		length++
		domNode.InsertBefore(node, ref)
	}
}

// sameWidget reports whether next can update previous in place: both carry
// the same WidgetID, or, without ids, share a concrete type.
func sameWidget(previous, next Node) bool {
	if !isWidget(previous) || !isWidget(next) {
		return false
	}
	pi, pok := previous.(WidgetIdentifier)
	ni, nok := next.(WidgetIdentifier)
	if pok && nok {
		return pi.WidgetID() == ni.WidgetID()
	}
	return reflect.TypeOf(previous) == reflect.TypeOf(next)
}

func sameNode(a, b dom.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return identical(a, b)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
