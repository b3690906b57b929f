package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/inamate/stage/internal/dom"
	"github.com/inamate/stage/internal/dom/htmldom"
	"github.com/inamate/stage/internal/vdom"
)

// ErrNotMounted is returned by Tick before Mount succeeded.
var ErrNotMounted = errors.New("engine is not mounted")

// Engine drives the frame loop: it owns the scene graph, the previous
// virtual tree and the live tree realized from it. Every method takes the
// engine lock, so scene mutations from other goroutines always land between
// frames, never during a diff or patch pass.
type Engine struct {
	mu sync.Mutex

	scene    *SceneGraph
	camera   *Node
	viewport Viewport

	// Running tweens, advanced at the start of each frame
	animations []*Animation

	// Bound to the rotation slider; kept across frames so the hook is
	// identical and produces no patch
	slider *vdom.EventHook

	doc  dom.Document
	root dom.Node
	tree *vdom.VNode

	frame int
	log   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithViewport sets the initial viewport size.
func WithViewport(w, h float64) Option {
	return func(e *Engine) { e.viewport = Viewport{Width: w, Height: h} }
}

// WithLogger sets the logger for frame errors.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// FrameReport summarizes one Tick.
type FrameReport struct {
	Frame    int            `json:"frame"`
	Patches  map[string]int `json:"patches"`
	Duration time.Duration  `json:"duration"`
}

// NewEngine creates an engine for the scene viewed through camera.
func NewEngine(scene *SceneGraph, camera *Node, opts ...Option) *Engine {
	e := &Engine{
		scene:    scene,
		camera:   camera,
		viewport: Viewport{Width: 1280, Height: 720},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.slider = &vdom.EventHook{Handler: e.onSliderInput}
	return e
}

func (e *Engine) onSliderInput(ev dom.Event) {
	rotation, err := strconv.ParseFloat(ev.Value, 64)
	if err != nil {
		e.log.Warn("ignoring slider input", "value", ev.Value, "error", err)
		return
	}
	e.SetCameraRotation(rotation)
}

// Mount realizes the first frame and appends it to parent.
func (e *Engine) Mount(doc dom.Document, parent dom.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tree, err := RenderScene(e.viewport, e.camera, e.scene.Root, e.slider)
	if err != nil {
		return fmt.Errorf("build first frame: %w", err)
	}
	root, err := vdom.Render(tree, &vdom.Options{Document: doc})
	if err != nil {
		return fmt.Errorf("realize first frame: %w", err)
	}
	if parent != nil {
		parent.AppendChild(root)
	}

	e.doc = doc
	e.root = root
	e.tree = tree
	return nil
}

// Tick advances animations by dt seconds, rebuilds the virtual tree and
// patches the live tree towards it. On error the previous trees are kept.
func (e *Engine) Tick(dt float32) (FrameReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	report := FrameReport{Frame: e.frame}
	if e.root == nil {
		return report, ErrNotMounted
	}

	e.advance(dt)

	ps, tree, err := e.diff()
	if err != nil {
		framesFailed.Inc()
		e.log.Error("frame failed", "frame", e.frame, "error", err)
		return report, err
	}
	root, err := vdom.Apply(e.root, ps, &vdom.Options{Document: e.doc})
	if err != nil {
		framesFailed.Inc()
		e.log.Error("frame failed", "frame", e.frame, "error", err)
		return report, fmt.Errorf("patch frame %d: %w", e.frame, err)
	}

	e.root = root
	e.tree = tree
	e.frame++

	report.Patches = make(map[string]int)
	for kind, n := range ps.Count() {
		report.Patches[kind.String()] = n
		patchesTotal.WithLabelValues(kind.String()).Add(float64(n))
	}
	report.Duration = time.Since(start)
	framesTotal.Inc()
	frameDuration.Observe(report.Duration.Seconds())
	return report, nil
}

func (e *Engine) advance(dt float32) {
	running := e.animations[:0]
	for _, a := range e.animations {
		a.Update(dt)
		if !a.Done {
			running = append(running, a)
		}
	}
	clear(e.animations[len(running):])
	e.animations = running
}

func (e *Engine) diff() (*vdom.PatchSet, *vdom.VNode, error) {
	tree, err := RenderScene(e.viewport, e.camera, e.scene.Root, e.slider)
	if err != nil {
		return nil, nil, fmt.Errorf("build frame %d: %w", e.frame, err)
	}
	ps, err := vdom.Diff(e.tree, tree)
	if err != nil {
		return nil, nil, fmt.Errorf("diff frame %d: %w", e.frame, err)
	}
	return ps, tree, nil
}

// Frame returns the number of frames patched so far.
func (e *Engine) Frame() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Root returns the live root node.
func (e *Engine) Root() dom.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// Snapshot returns the HTML of the live tree when it is backed by htmldom.
func (e *Engine) Snapshot() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return htmldom.String(e.root)
}

// SetViewport resizes the area the stage is letterboxed into.
func (e *Engine) SetViewport(w, h float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = Viewport{Width: w, Height: h}
}

// SetCameraRotation sets the camera rotation in radians.
func (e *Engine) SetCameraRotation(rotation float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.camera.Rotation = rotation
}

// TransformUpdate carries the fields to change on a node; nil fields are
// left alone.
type TransformUpdate struct {
	Position *Vec2    `json:"position,omitempty"`
	Size     *Vec2    `json:"size,omitempty"`
	Scale    *Vec2    `json:"scale,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
}

func (u TransformUpdate) apply(n *Node) {
	if u.Position != nil {
		n.Position = *u.Position
	}
	if u.Size != nil {
		n.Size = *u.Size
	}
	if u.Scale != nil {
		n.Scale = *u.Scale
	}
	if u.Rotation != nil {
		n.Rotation = *u.Rotation
	}
}

// SetCamera updates the camera transform.
func (e *Engine) SetCamera(u TransformUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u.apply(e.camera)
}

// CameraUpdate moves or turns the camera one field at a time; nil fields
// are left alone.
type CameraUpdate struct {
	Rotation *float64 `json:"rotation,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// UpdateCamera applies u and returns the resulting camera state, under one
// lock so concurrent single-axis updates never overwrite each other.
func (e *Engine) UpdateCamera(u CameraUpdate) NodeInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	if u.Rotation != nil {
		e.camera.Rotation = *u.Rotation
	}
	if u.X != nil {
		e.camera.Position.X = *u.X
	}
	if u.Y != nil {
		e.camera.Position.Y = *u.Y
	}
	return describe(e.camera)
}

// SetTransform updates the transform of the node with the given id.
func (e *Engine) SetTransform(id int, u TransformUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.scene.Node(id)
	if err != nil {
		return fmt.Errorf("set transform of %d: %w", id, err)
	}
	u.apply(n)
	return nil
}

// Animate tweens a property of the node with the given id to `to` over
// duration seconds. Animations advance on Tick.
func (e *Engine) Animate(id int, prop Property, to float64, duration float32, easing string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.scene.Node(id)
	if err != nil {
		return fmt.Errorf("animate %d: %w", id, err)
	}
	fn, err := Easing(easing)
	if err != nil {
		return fmt.Errorf("animate %d: %w", id, err)
	}
	a, err := NewAnimation(n, prop, to, duration, fn)
	if err != nil {
		return fmt.Errorf("animate %d: %w", id, err)
	}
	e.animations = append(e.animations, a)
	return nil
}

// NodeInfo describes a scene node for inspection.
type NodeInfo struct {
	ID       int     `json:"id"`
	Kind     string  `json:"kind"`
	Parent   *int    `json:"parent,omitempty"`
	Children []int   `json:"children"`
	Position Vec2    `json:"position"`
	Size     Vec2    `json:"size"`
	Scale    Vec2    `json:"scale"`
	Rotation float64 `json:"rotation"`
	Color    string  `json:"color,omitempty"`
	Matrix   string  `json:"matrix"`
	Bounds   Rect    `json:"bounds"`
}

// Describe returns the current state of the node with the given id.
func (e *Engine) Describe(id int) (NodeInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.scene.Node(id)
	if err != nil {
		return NodeInfo{}, fmt.Errorf("describe %d: %w", id, err)
	}
	return describe(n), nil
}

// HitTest returns the topmost box at the world-space point.
func (e *Engine) HitTest(x, y float64) (NodeInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.scene.HitTest(x, y)
	if !ok {
		return NodeInfo{}, false
	}
	return describe(n), true
}

func describe(n *Node) NodeInfo {
	info := NodeInfo{
		ID:       n.ID,
		Kind:     n.Kind.String(),
		Children: make([]int, 0, len(n.children)),
		Position: n.Position,
		Size:     n.Size,
		Scale:    n.Scale,
		Rotation: n.Rotation,
		Color:    n.Color,
		Matrix:   n.Matrix().String(),
		Bounds:   n.Bounds(),
	}
	if n.parent != nil {
		id := n.parent.ID
		info.Parent = &id
	}
	for _, c := range n.children {
		info.Children = append(info.Children, c.ID)
	}
	return info
}
