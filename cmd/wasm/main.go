//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/inamate/stage/internal/dom/jsdom"
	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/vdom"
)

var (
	eng  *engine.Engine
	body *jsdom.Node
	last float64
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	vdom.SetLogger(logger)

	doc := jsdom.New()
	body = doc.Body()
	w, h := body.ClientSize()

	scene, camera := engine.NewSampleScene()
	eng = engine.NewEngine(scene, camera,
		engine.WithViewport(w, h),
		engine.WithLogger(logger),
	)
	if err := eng.Mount(doc, body); err != nil {
		logger.Error("mount failed", "error", err)
		return
	}

	// Create the engine API object
	stageEngine := js.Global().Get("Object").New()

	// --- Commands (page → engine) ---
	stageEngine.Set("setCameraRotation", js.FuncOf(setCameraRotation))
	stageEngine.Set("setCamera", js.FuncOf(setCamera))
	stageEngine.Set("setTransform", js.FuncOf(setTransform))
	stageEngine.Set("animate", js.FuncOf(animate))

	// --- Queries (page ← engine) ---
	stageEngine.Set("getFrame", js.FuncOf(getFrame))
	stageEngine.Set("describe", js.FuncOf(describe))
	stageEngine.Set("hitTest", js.FuncOf(hitTest))

	js.Global().Set("stageEngine", stageEngine)

	js.Global().Call("addEventListener", "resize", js.FuncOf(resize))

	var frame js.Func
	frame = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		now := args[0].Float()
		dt := 0.0
		if last > 0 {
			dt = (now - last) / 1000
		}
		last = now
		if _, err := eng.Tick(float32(dt)); err != nil {
			logger.Warn("tick failed", "error", err)
		}
		js.Global().Call("requestAnimationFrame", frame)
		return nil
	})
	js.Global().Call("requestAnimationFrame", frame)

	// Signal that WASM is ready
	js.Global().Set("stageWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func resize(this js.Value, args []js.Value) interface{} {
	eng.SetViewport(body.ClientSize())
	return nil
}

// --- Command Handlers ---

func setCameraRotation(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeNumber {
		return js.ValueOf(map[string]interface{}{"error": "missing rotation"})
	}
	eng.SetCameraRotation(args[0].Float())
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setCamera(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing transform JSON"})
	}
	var u engine.TransformUpdate
	if err := json.Unmarshal([]byte(args[0].String()), &u); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	eng.SetCamera(u)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setTransform(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing node id or transform JSON"})
	}
	var u engine.TransformUpdate
	if err := json.Unmarshal([]byte(args[1].String()), &u); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	if err := eng.SetTransform(args[0].Int(), u); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// animate(id, property, to, seconds, easing?)
func animate(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return js.ValueOf(map[string]interface{}{"error": "expected id, property, to, duration"})
	}
	easing := "linear"
	if len(args) > 4 && args[4].Type() == js.TypeString {
		easing = args[4].String()
	}
	err := eng.Animate(args[0].Int(), engine.Property(args[1].String()), args[2].Float(), float32(args[3].Float()), easing)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Query Handlers ---

func getFrame(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Frame())
}

func describe(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	info, err := eng.Describe(args[0].Int())
	if err != nil {
		return js.ValueOf("")
	}
	data, _ := json.Marshal(info)
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	info, ok := eng.HitTest(args[0].Float(), args[1].Float())
	if !ok {
		return js.ValueOf("")
	}
	data, _ := json.Marshal(info)
	return js.ValueOf(string(data))
}
