package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/inamate/stage/internal/dom"
)

// applyProperties sets props on node. previous holds the properties node was
// last rendered with and is nil on creation.
func applyProperties(node dom.Node, props, previous Props) {
	for _, name := range sortedKeys(props) {
		value := props[name]
		switch {
		case value == nil:
			removeProperty(node, name, nil, previous)
		case isHook(value):
			removeProperty(node, name, value, previous)
			if h, ok := value.(Hooker); ok {
				h.Hook(node, name, previous[name])
			}
		default:
			if obj, ok := asObject(value); ok {
				patchObject(node, name, value, obj, previous)
			} else {
				node.SetProperty(name, value)
			}
		}
	}
}

func removeProperty(node dom.Node, name string, value any, previous Props) {
	if previous == nil {
		return
	}
	prev, ok := previous[name]
	if !ok || prev == nil {
		return
	}
	if isHook(prev) {
		if u, ok := prev.(Unhooker); ok {
			u.Unhook(node, name, value)
		}
		return
	}
	switch name {
	case "attributes":
		obj, _ := asObject(prev)
		for _, k := range sortedKeys(obj) {
			node.RemoveAttribute(k)
		}
	case "style":
		obj, _ := asObject(prev)
		for _, k := range sortedKeys(obj) {
			node.SetStyle(k, "")
		}
	default:
		if _, ok := prev.(string); ok {
			node.SetProperty(name, "")
		} else {
			node.SetProperty(name, nil)
		}
	}
}

func patchObject(node dom.Node, name string, value any, obj map[string]any, previous Props) {
	if name == "attributes" {
		for _, k := range sortedKeys(obj) {
			if v := obj[k]; v == nil {
				node.RemoveAttribute(k)
			} else {
				node.SetAttribute(k, stringify(v))
			}
		}
		return
	}

	prev := previous[name]
	if prevObj, ok := asObject(prev); ok && reflect.TypeOf(prev) != reflect.TypeOf(value) {
		// The object changed shape; replace it rather than merging.
		if name == "style" {
			for _, k := range sortedKeys(prevObj) {
				node.SetStyle(k, "")
			}
		} else {
			node.SetProperty(name, value)
			return
		}
	}

	if name == "style" {
		for _, k := range sortedKeys(obj) {
			if v := obj[k]; v == nil {
				node.SetStyle(k, "")
			} else {
				node.SetStyle(k, stringify(v))
			}
		}
		return
	}

	merged := map[string]any{}
	if current, ok := asObject(node.Property(name)); ok {
		for k, v := range current {
			merged[k] = v
		}
	}
	for k, v := range obj {
		if v == nil {
			delete(merged, k)
		} else {
			merged[k] = v
		}
	}
	node.SetProperty(name, merged)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
