package engine

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property names a tweenable node field.
type Property string

const (
	PropX        Property = "x"
	PropY        Property = "y"
	PropRotation Property = "rotation"
	PropScaleX   Property = "scaleX"
	PropScaleY   Property = "scaleY"
	PropWidth    Property = "width"
	PropHeight   Property = "height"
)

var easings = map[string]ease.TweenFunc{
	"":           ease.Linear,
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"outBounce":  ease.OutBounce,
}

// Easing resolves an easing function by name. The empty name is linear.
func Easing(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// Animation tweens one field of a node. Update it once per frame; it writes
// the field directly, so the next layout picks the value up.
type Animation struct {
	NodeID   int
	Property Property
	Done     bool

	tween *gween.Tween
	field *float64
}

// NewAnimation starts a tween of the node's property from its current value
// to `to` over duration seconds.
func NewAnimation(n *Node, prop Property, to float64, duration float32, fn ease.TweenFunc) (*Animation, error) {
	field, err := fieldOf(n, prop)
	if err != nil {
		return nil, err
	}
	return &Animation{
		NodeID:   n.ID,
		Property: prop,
		tween:    gween.New(float32(*field), float32(to), duration, fn),
		field:    field,
	}, nil
}

// Update advances the tween by dt seconds.
func (a *Animation) Update(dt float32) {
	if a.Done {
		return
	}
	val, finished := a.tween.Update(dt)
	*a.field = float64(val)
	a.Done = finished
}

func fieldOf(n *Node, prop Property) (*float64, error) {
	switch prop {
	case PropX:
		return &n.Position.X, nil
	case PropY:
		return &n.Position.Y, nil
	case PropRotation:
		return &n.Rotation, nil
	case PropScaleX:
		return &n.Scale.X, nil
	case PropScaleY:
		return &n.Scale.Y, nil
	case PropWidth:
		return &n.Size.X, nil
	case PropHeight:
		return &n.Size.Y, nil
	}
	return nil, fmt.Errorf("unknown property %q", prop)
}
