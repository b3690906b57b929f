package engine

import "math"

// NewSampleScene builds the demo scene: three boxes under the root, a fourth
// nested in the red one, and a camera framing the top-left of the world.
// The camera and the red and pink boxes are tilted by π/8.
func NewSampleScene() (*SceneGraph, *Node) {
	sg := NewSceneGraph()
	camera := sg.NewCamera(Vec2{0, 0}, Vec2{240, 135})

	sg.NewBox(sg.Root, Vec2{10, 10}, Vec2{100, 100}, "green")
	sg.NewBox(sg.Root, Vec2{300, 50}, Vec2{50, 50}, "blue")
	red := sg.NewBox(sg.Root, Vec2{200, 100}, Vec2{75, 75}, "red")
	pink := sg.NewBox(red, Vec2{25, 0}, Vec2{25, 25}, "pink")

	camera.Rotation = math.Pi / 8
	red.Rotation = math.Pi / 8
	pink.Rotation = math.Pi / 8

	return sg, camera
}
