// Package vdom describes display trees as immutable virtual snapshots and
// reconciles one snapshot into the next: Diff computes an index-addressed
// patch set, Apply replays it against the live tree realized from the
// previous snapshot.
package vdom

import (
	"reflect"

	"github.com/inamate/stage/internal/dom"
)

// Node is any value that can appear in a virtual tree: *VNode, *VText,
// *Thunk or a Widget.
type Node interface {
	isNode()
}

// Props maps property names to values. Values are plain (copied onto the
// display node), nested objects (Style, Attributes, map[string]any, merged
// key by key) or hooks. A nil value means the property is unset.
type Props map[string]any

// Style is a nested property object whose keys are style channels.
type Style map[string]any

// Attributes is a nested property object applied with set/remove-attribute.
type Attributes map[string]any

// VNode is one prospective display element. Build it with NewVNode or H and
// treat it as immutable afterwards; the derived counters are computed once.
type VNode struct {
	Tag       string
	Props     Props
	Children  []Node
	Key       string
	Namespace string

	count           int
	hasWidgets      bool
	hasThunks       bool
	descendantHooks bool
	hooks           Props
}

func (*VNode) isNode() {}

// NewVNode creates an element node and precomputes its descendant count and
// the widget/thunk/hook flags the differ uses to skip subtrees.
func NewVNode(tag string, props Props, children []Node, key, namespace string) *VNode {
	if props == nil {
		props = Props{}
	}
	v := &VNode{
		Tag:       tag,
		Props:     props,
		Children:  children,
		Key:       key,
		Namespace: namespace,
	}

	for name, p := range props {
		if _, ok := p.(Unhooker); ok {
			if v.hooks == nil {
				v.hooks = Props{}
			}
			v.hooks[name] = p
		}
	}

	descendants := 0
	for _, child := range children {
		switch c := child.(type) {
		case *VNode:
			descendants += c.count
			if c.hasWidgets {
				v.hasWidgets = true
			}
			if c.hasThunks {
				v.hasThunks = true
			}
			if c.hooks != nil || c.descendantHooks {
				v.descendantHooks = true
			}
		case *Thunk:
			v.hasThunks = true
		case Widget:
			if _, ok := c.(WidgetDestroyer); ok {
				v.hasWidgets = true
			}
		}
	}
	v.count = len(children) + descendants
	return v
}

// Count returns the number of descendants.
func (v *VNode) Count() int { return v.count }

// HasWidgets reports whether a destroyable widget lives in the subtree.
func (v *VNode) HasWidgets() bool { return v.hasWidgets }

// HasThunks reports whether a thunk lives in the subtree.
func (v *VNode) HasThunks() bool { return v.hasThunks }

// DescendantHooks reports whether a descendant carries an unhookable property.
func (v *VNode) DescendantHooks() bool { return v.descendantHooks }

// Hooks returns the node's own properties that implement Unhooker.
func (v *VNode) Hooks() Props { return v.hooks }

// VText is a text node.
type VText struct {
	Text string
}

func (*VText) isNode() {}

// NewText creates a text node.
func NewText(text string) *VText {
	return &VText{Text: text}
}

// Widget is a user-managed display node. Embed WidgetBase to satisfy Node.
type Widget interface {
	Node
	Init(doc dom.Document) dom.Node
}

// WidgetUpdater updates a widget in place. Returning nil keeps node.
type WidgetUpdater interface {
	Update(previous Widget, node dom.Node) dom.Node
}

// WidgetDestroyer releases what Init acquired.
type WidgetDestroyer interface {
	Destroy(node dom.Node)
}

// WidgetIdentifier gives widgets a stable identity. Two widgets that both
// implement it are the same instance when their ids match; otherwise widgets
// of the same concrete type are.
type WidgetIdentifier interface {
	WidgetID() string
}

// WidgetBase marks a type as a virtual tree node.
type WidgetBase struct{}

func (WidgetBase) isNode() {}

// Keyer lets widgets take part in keyed reordering.
type Keyer interface {
	Key() string
}

// Hooker applies an imperative effect when a property is set.
type Hooker interface {
	Hook(node dom.Node, name string, previous any)
}

// Unhooker reverses a hook when the property is removed or replaced.
type Unhooker interface {
	Unhook(node dom.Node, name string, next any)
}

func isHook(v any) bool {
	switch v.(type) {
	case Hooker, Unhooker:
		return true
	}
	return false
}

func isWidget(n Node) bool {
	_, ok := n.(Widget)
	return ok
}

func isThunk(n Node) bool {
	_, ok := n.(*Thunk)
	return ok
}

func keyOf(n Node) string {
	switch x := n.(type) {
	case *VNode:
		return x.Key
	case *Thunk:
		return x.Key
	case Keyer:
		return x.Key()
	}
	return ""
}

func countOf(n Node) int {
	if v, ok := n.(*VNode); ok {
		return v.count
	}
	return 0
}

// asObject returns the fields of a nested property object.
func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Props:
		return x, true
	case Style:
		return x, true
	case Attributes:
		return x, true
	}
	return nil, false
}

// identical is reference equality: comparable values compare with ==,
// reference kinds compare by pointer.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if ta.Comparable() {
		return a == b
	}
	return false
}
