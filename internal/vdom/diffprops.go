package vdom

import "reflect"

// diffProps returns the property changes from a to b, or nil when there are
// none. Removed keys map to nil. Nested objects of the same type are diffed
// key by key; hooks and objects that changed type are replaced wholesale.
func diffProps(a, b Props) Props {
	var diff Props
	set := func(k string, v any) {
		if diff == nil {
			diff = Props{}
		}
		diff[k] = v
	}

	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			set(k, nil)
			continue
		}
		if identical(av, bv) {
			continue
		}
		ao, aObj := asObject(av)
		bo, bObj := asObject(bv)
		switch {
		case aObj && bObj && reflect.TypeOf(av) != reflect.TypeOf(bv):
			set(k, bv)
		case isHook(bv):
			set(k, bv)
		case aObj && bObj:
			if nested := diffProps(ao, bo); nested != nil {
				set(k, retype(bv, nested))
			}
		default:
			set(k, bv)
		}
	}

	for k, bv := range b {
		if _, ok := a[k]; !ok {
			set(k, bv)
		}
	}
	return diff
}

// retype gives a nested diff the same object type as the value it came from,
// so appliers can still tell a style diff from an attribute diff.
func retype(like any, m Props) any {
	switch like.(type) {
	case Style:
		return Style(m)
	case Attributes:
		return Attributes(m)
	case Props:
		return m
	}
	return map[string]any(m)
}
