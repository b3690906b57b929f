package vdom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inamate/stage/internal/dom"
)

// UnexpectedChildError reports a child passed to H that is not a node,
// string, number or slice of those.
type UnexpectedChildError struct {
	Child       any
	ParentTag   string
	ParentProps Props
}

func (e *UnexpectedChildError) Error() string {
	return fmt.Sprintf("vdom: unexpected child of type %T in <%s>", e.Child, e.ParentTag)
}

// H builds an element from a selector, properties and children.
//
// The selector is a tag optionally followed by ".class" and "#id" parts;
// a selector that starts with either defaults to DIV. Tags are upper-cased
// unless props carries a "namespace". The "key" and "namespace" props are
// lifted onto the node. An INPUT's plain "value" becomes a SoftSetHook and
// "ev-*" handlers become EventHooks.
//
// Children may be strings, numbers, nodes, nil (skipped) or slices of
// those, which are flattened.
func H(selector string, props Props, children ...any) (*VNode, error) {
	p := make(Props, len(props))
	for k, v := range props {
		p[k] = v
	}

	var key, namespace string
	if v, ok := p["key"]; ok {
		if v != nil {
			key = stringify(v)
		}
		delete(p, "key")
	}
	if v, ok := p["namespace"]; ok {
		if s, ok := v.(string); ok {
			namespace = s
		}
		delete(p, "namespace")
	}

	tag := parseTag(selector, p, namespace != "")

	if tag == "INPUT" && namespace == "" {
		if v, ok := p["value"]; ok && v != nil && !isHook(v) {
			p["value"] = &SoftSetHook{Value: v}
		}
	}
	for name, v := range p {
		if !strings.HasPrefix(name, "ev-") || isHook(v) {
			continue
		}
		switch h := v.(type) {
		case dom.Handler:
			p[name] = &EventHook{Handler: h}
		case func(dom.Event):
			p[name] = &EventHook{Handler: h}
		}
	}

	var nodes []Node
	if err := addChildren(&nodes, children, tag, p); err != nil {
		return nil, err
	}
	return NewVNode(tag, p, nodes, key, namespace), nil
}

func addChildren(nodes *[]Node, children []any, tag string, props Props) error {
	for _, c := range children {
		if err := addChild(nodes, c, tag, props); err != nil {
			return err
		}
	}
	return nil
}

func addChild(nodes *[]Node, c any, tag string, props Props) error {
	switch x := c.(type) {
	case nil:
	case string:
		*nodes = append(*nodes, NewText(x))
	case int:
		*nodes = append(*nodes, NewText(strconv.Itoa(x)))
	case int64:
		*nodes = append(*nodes, NewText(strconv.FormatInt(x, 10)))
	case float64:
		*nodes = append(*nodes, NewText(strconv.FormatFloat(x, 'f', -1, 64)))
	case float32:
		*nodes = append(*nodes, NewText(strconv.FormatFloat(float64(x), 'f', -1, 32)))
	case *VNode:
		if x != nil {
			*nodes = append(*nodes, x)
		}
	case *VText:
		if x != nil {
			*nodes = append(*nodes, x)
		}
	case *Thunk:
		if x != nil {
			*nodes = append(*nodes, x)
		}
	case Widget:
		*nodes = append(*nodes, x)
	case []Node:
		for _, n := range x {
			if err := addChild(nodes, n, tag, props); err != nil {
				return err
			}
		}
	case []*VNode:
		for _, n := range x {
			if err := addChild(nodes, n, tag, props); err != nil {
				return err
			}
		}
	case []any:
		return addChildren(nodes, x, tag, props)
	default:
		return &UnexpectedChildError{Child: c, ParentTag: tag, ParentProps: props}
	}
	return nil
}

// parseTag splits "tag.class#id" and records the class and id parts in
// props. An explicit id prop wins over the selector; an explicit className
// is appended to the selector classes.
func parseTag(selector string, props Props, namespaced bool) string {
	if selector == "" {
		return "DIV"
	}

	var parts []string
	start := 0
	for i := 1; i <= len(selector); i++ {
		if i == len(selector) || selector[i] == '.' || selector[i] == '#' {
			if i > start {
				parts = append(parts, selector[start:i])
			}
			start = i
		}
	}

	tag := ""
	if c := selector[0]; c == '.' || c == '#' {
		tag = "DIV"
	}
	_, hasID := props["id"]
	var classes []string
	for _, part := range parts {
		switch {
		case tag == "":
			tag = part
		case part[0] == '.' && len(part) > 1:
			classes = append(classes, part[1:])
		case part[0] == '#' && len(part) > 1 && !hasID:
			props["id"] = part[1:]
		}
	}
	if classes != nil {
		if cn, ok := props["className"].(string); ok && cn != "" {
			classes = append(classes, cn)
		}
		props["className"] = strings.Join(classes, " ")
	}

	if namespaced {
		return tag
	}
	return strings.ToUpper(tag)
}
