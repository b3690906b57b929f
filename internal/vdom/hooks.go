package vdom

import (
	"strings"

	"github.com/inamate/stage/internal/dom"
)

// SoftSetHook sets a property only when the live value differs, so that
// re-rendering an input does not reset what the user is typing.
type SoftSetHook struct {
	Value any
}

func (h *SoftSetHook) Hook(node dom.Node, name string, _ any) {
	if !identical(node.Property(name), h.Value) {
		node.SetProperty(name, h.Value)
	}
}

// EventHook binds Handler for the event named by the property, minus its
// "ev-" prefix.
type EventHook struct {
	Handler dom.Handler
}

func (h *EventHook) Hook(node dom.Node, name string, _ any) {
	node.SetHandler(eventName(name), h.Handler)
}

func (h *EventHook) Unhook(node dom.Node, name string, _ any) {
	node.SetHandler(eventName(name), nil)
}

func eventName(prop string) string {
	return strings.TrimPrefix(prop, "ev-")
}
