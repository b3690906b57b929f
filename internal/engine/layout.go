package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/inamate/stage/internal/vdom"
)

// Viewport is the size of the element the stage is mounted in.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderScene builds the virtual tree for one frame: a stage letterboxed to
// the camera's aspect ratio, a rotation slider and every box under root,
// projected through the camera. onRotate, when set, is bound to the slider.
//
// Boxes are keyed by id so that reordering them reuses live nodes.
func RenderScene(vp Viewport, camera, root *Node, onRotate *vdom.EventHook) (*vdom.VNode, error) {
	inv, ok := camera.MatrixInverse()
	if !ok {
		return nil, fmt.Errorf("project through camera %d: %w", camera.ID, ErrSingularMatrix)
	}

	ar := camera.AspectRatio()
	wStage := ar * vp.Height
	if vp.Width/vp.Height <= ar {
		wStage = vp.Width
	}
	hStage := wStage / ar

	var b builder
	boxes := make([]vdom.Node, 0, len(root.children))
	for _, n := range root.children {
		boxes = append(boxes, b.fromCamera(camera, inv, n))
	}

	slider := vdom.Props{
		"type":  "range",
		"min":   0,
		"max":   math.Pi / 2,
		"step":  math.Pi / 64,
		"value": formatNumber(camera.Rotation),
		"style": vdom.Style{
			"position": "absolute",
			"zIndex":   "1000",
		},
	}
	if onRotate != nil {
		slider["ev-input"] = onRotate
	}

	stage := b.h("div#stage", vdom.Props{
		"style": vdom.Style{
			"margin":          "0 auto",
			"position":        "relative",
			"overflow":        "hidden",
			"backgroundColor": "white",
			"width":           percent(wStage, vp.Width),
			"height":          percent(hStage, vp.Height),
		},
	},
		b.debug(camera, root),
		b.h("input", slider),
		boxes,
	)
	if b.err != nil {
		return nil, b.err
	}
	return stage, nil
}

// fromCamera lays out a top-level box in the camera's frame.
func (b *builder) fromCamera(camera *Node, inv Matrix2D, n *Node) *vdom.VNode {
	pos := inv.TransformVec(n.Position)
	children := make([]vdom.Node, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, b.node(n, c))
	}
	return b.box(n, camera,
		percent(pos.X, camera.Size.X),
		percent(pos.Y/camera.AspectRatio(), camera.Size.Y),
		n.Rotation+camera.Rotation,
		children,
	)
}

// node lays out a nested box relative to its parent.
func (b *builder) node(parent, n *Node) *vdom.VNode {
	children := make([]vdom.Node, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, b.node(n, c))
	}
	return b.box(n, parent,
		percent(n.Position.X, parent.Size.X),
		percent(n.Position.Y/parent.AspectRatio(), parent.Size.Y),
		n.Rotation,
		children,
	)
}

func (b *builder) box(n, frame *Node, x, y string, rotation float64, children []vdom.Node) *vdom.VNode {
	return b.h("div.node", vdom.Props{
		"key": "box-" + strconv.Itoa(n.ID),
		"style": vdom.Style{
			"width":           percent(n.Size.X, frame.Size.X),
			"height":          percent(n.Size.Y, frame.Size.Y),
			"position":        "absolute",
			"backgroundColor": n.Color,
			"transform": "translate3d(" + x + ", " + y + ", 0) " +
				"rotate(" + formatNumber(toDegrees(rotation)) + "deg) " +
				"scale(" + formatNumber(n.Scale.X) + ", " + formatNumber(n.Scale.Y) + ")",
		},
	}, b.debug(frame, n), children)
}

// debug renders the position readout shown in the corner of every node.
func (b *builder) debug(frame, n *Node) *vdom.VNode {
	return b.h("div.debug", vdom.Props{
		"style": vdom.Style{
			"position": "absolute",
			"bottom":   "0",
		},
	},
		b.h("p", nil, "pos:  "+n.Position.String()),
		b.h("p", nil, "ppos: "+frame.Position.String()),
		b.h("p", nil, "psz:  "+frame.Size.String()),
	)
}

// builder wraps vdom.H and keeps the first construction error, so a layout
// can be written as one expression and checked once.
type builder struct {
	err error
}

func (b *builder) h(selector string, props vdom.Props, children ...any) *vdom.VNode {
	if b.err != nil {
		return nil
	}
	v, err := vdom.H(selector, props, children...)
	if err != nil {
		b.err = err
		return nil
	}
	return v
}

func percent(top, bottom float64) string {
	return formatNumber(top/bottom*100) + "%"
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
