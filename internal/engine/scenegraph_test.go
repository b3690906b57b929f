package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleScene(t *testing.T) {
	sg, camera := NewSampleScene()

	assert.Equal(t, 0, sg.Root.ID)
	assert.Equal(t, 1, camera.ID)
	assert.Len(t, sg.Root.Children(), 3)
	assert.Equal(t, Vec2{350, 175}, sg.Root.Size)

	red, err := sg.Node(4)
	require.NoError(t, err)
	assert.Equal(t, "red", red.Color)
	require.Len(t, red.Children(), 1)
	assert.Equal(t, "pink", red.Children()[0].Color)
	assert.InDelta(t, math.Pi/8, camera.Rotation, eps)
	assert.InDelta(t, 240.0/135.0, camera.AspectRatio(), eps)
}

func TestIDsAreMonotonic(t *testing.T) {
	sg := NewSceneGraph()
	a := sg.NewBox(sg.Root, Vec2{}, Vec2{1, 1}, "a")
	b := sg.NewBox(a, Vec2{}, Vec2{1, 1}, "b")
	c := sg.NewCamera(Vec2{}, Vec2{1, 1})
	assert.Equal(t, []int{1, 2, 3}, []int{a.ID, b.ID, c.ID})

	_, err := sg.Node(99)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestSetParent(t *testing.T) {
	sg := NewSceneGraph()
	a := sg.NewBox(sg.Root, Vec2{10, 10}, Vec2{20, 20}, "a")
	b := sg.NewBox(a, Vec2{100, 100}, Vec2{50, 50}, "b")

	t.Run("nested attach does not grow", func(t *testing.T) {
		assert.Equal(t, Vec2{20, 20}, a.Size)
		assert.Equal(t, Vec2{30, 30}, sg.Root.Size)
	})

	t.Run("reparent under root grows it", func(t *testing.T) {
		b.SetParent(sg.Root)
		assert.Empty(t, a.Children())
		assert.Equal(t, []*Node{a, b}, sg.Root.Children())
		assert.Same(t, sg.Root, b.Parent())
		assert.Equal(t, Vec2{150, 150}, sg.Root.Size)
	})

	t.Run("same parent keeps a single entry", func(t *testing.T) {
		b.SetParent(sg.Root)
		assert.Len(t, sg.Root.Children(), 2)
	})

	t.Run("root never shrinks", func(t *testing.T) {
		b.SetParent(nil)
		assert.Nil(t, b.Parent())
		assert.Equal(t, []*Node{a}, sg.Root.Children())
		assert.Equal(t, Vec2{150, 150}, sg.Root.Size)
	})
}

func TestNodeMatrix(t *testing.T) {
	sg := NewSceneGraph()
	n := sg.NewBox(sg.Root, Vec2{10, 20}, Vec2{1, 1}, "")
	n.Scale = Vec2{2, 2}
	n.Rotation = math.Pi / 2

	// Rotate first, then scale, then translate.
	assertVec(t, Vec2{10, 22}, n.Matrix().TransformVec(Vec2{1, 0}))

	inv, ok := n.MatrixInverse()
	require.True(t, ok)
	assertVec(t, Vec2{1, 0}, inv.TransformVec(Vec2{10, 22}))

	n.Scale = Vec2{0, 1}
	_, ok = n.MatrixInverse()
	assert.False(t, ok)
}

func TestCameraProjection(t *testing.T) {
	sg := NewSceneGraph()
	camera := sg.NewCamera(Vec2{100, 50}, Vec2{200, 100})

	inv, ok := camera.MatrixInverse()
	require.True(t, ok)
	assertVec(t, Vec2{10, 10}, inv.TransformVec(Vec2{110, 60}))

	camera.Rotation = math.Pi / 2
	inv, ok = camera.MatrixInverse()
	require.True(t, ok)
	// A point one unit below the camera lies along its local +x after a quarter turn.
	assertVec(t, Vec2{1, 0}, inv.TransformVec(Vec2{100, 51}))
}

func TestAspectRatioZeroHeight(t *testing.T) {
	n := &Node{Size: Vec2{10, 0}}
	assert.True(t, math.IsInf(n.AspectRatio(), 1))
}

func TestWorldMatrixAndHitTest(t *testing.T) {
	sg := NewSceneGraph()
	a := sg.NewBox(sg.Root, Vec2{100, 100}, Vec2{50, 50}, "a")
	b := sg.NewBox(a, Vec2{10, 10}, Vec2{5, 5}, "b")

	assertVec(t, Vec2{110, 110}, b.WorldMatrix().TransformVec(Vec2{}))

	hit, ok := sg.HitTest(112, 112)
	require.True(t, ok)
	assert.Same(t, b, hit)

	hit, ok = sg.HitTest(140, 140)
	require.True(t, ok)
	assert.Same(t, a, hit)

	_, ok = sg.HitTest(5, 5)
	assert.False(t, ok)
}
