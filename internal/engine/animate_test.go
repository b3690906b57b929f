package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimationReachesTarget(t *testing.T) {
	tests := []struct {
		prop  Property
		to    float64
		field func(n *Node) float64
	}{
		{PropX, 40, func(n *Node) float64 { return n.Position.X }},
		{PropY, -10, func(n *Node) float64 { return n.Position.Y }},
		{PropRotation, 1.5, func(n *Node) float64 { return n.Rotation }},
		{PropScaleX, 2, func(n *Node) float64 { return n.Scale.X }},
		{PropScaleY, 0.5, func(n *Node) float64 { return n.Scale.Y }},
		{PropWidth, 64, func(n *Node) float64 { return n.Size.X }},
		{PropHeight, 32, func(n *Node) float64 { return n.Size.Y }},
	}
	for _, tt := range tests {
		t.Run(string(tt.prop), func(t *testing.T) {
			sg := NewSceneGraph()
			n := sg.NewBox(sg.Root, Vec2{10, 10}, Vec2{20, 20}, "")
			fn, err := Easing("inOutQuad")
			require.NoError(t, err)

			a, err := NewAnimation(n, tt.prop, tt.to, 1, fn)
			require.NoError(t, err)

			// Exact halves avoid float32 accumulation drift.
			a.Update(0.5)
			assert.False(t, a.Done)
			a.Update(0.5)
			assert.True(t, a.Done)
			assert.InDelta(t, tt.to, tt.field(n), 0.001)

			// Finished animations no longer write.
			a.Update(0.5)
			assert.InDelta(t, tt.to, tt.field(n), 0.001)
		})
	}
}

func TestEasingLookup(t *testing.T) {
	for _, name := range []string{"", "linear", "outBounce", "inOutCubic"} {
		_, err := Easing(name)
		assert.NoError(t, err, name)
	}
	_, err := Easing("InQuad")
	assert.Error(t, err)
}
