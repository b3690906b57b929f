// Package stage exposes the headless stage over HTTP and drives its frame
// loop.
package stage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/stage/internal/auth"
	"github.com/inamate/stage/internal/engine"
)

type Handler struct {
	engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

type animateRequest struct {
	Property string  `json:"property"`
	To       float64 `json:"to"`
	Duration float32 `json:"duration"`
	Easing   string  `json:"easing"`
}

// Snapshot serves the live tree as HTML.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.engine.Snapshot()))
}

func (h *Handler) SetCamera(w http.ResponseWriter, r *http.Request) {
	var req engine.CameraUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	info := h.engine.UpdateCamera(req)

	slog.Info("camera updated", "session", auth.SessionIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	h.writeNode(w, id)
}

func (h *Handler) SetTransform(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}

	var u engine.TransformUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.engine.SetTransform(id, u); err != nil {
		handleEngineError(w, err)
		return
	}

	slog.Info("node transformed", "node", id, "session", auth.SessionIDFromContext(r.Context()))
	h.writeNode(w, id)
}

func (h *Handler) Animate(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}

	var req animateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Property == "" || req.Duration <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "property and a positive duration are required"})
		return
	}

	if err := h.engine.Animate(id, engine.Property(req.Property), req.To, req.Duration, req.Easing); err != nil {
		handleEngineError(w, err)
		return
	}

	slog.Info("animation started", "node", id, "property", req.Property, "session", auth.SessionIDFromContext(r.Context()))
	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// HitTest handles GET /api/hit?x=..&y=.. in world coordinates.
func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y must be numbers"})
		return
	}

	info, ok := h.engine.HitTest(x, y)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no node at point"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) writeNode(w http.ResponseWriter, id int) {
	info, err := h.engine.Describe(id)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func nodeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid node id"})
		return 0, false
	}
	return id, true
}

func handleEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrNodeNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "node not found"})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Register mounts the stage routes on r. Mutating routes go through protect.
func (h *Handler) Register(r *mux.Router, protect mux.MiddlewareFunc) {
	r.HandleFunc("/stage", h.Snapshot).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/nodes/{id}", h.GetNode).Methods("GET")
	api.HandleFunc("/hit", h.HitTest).Methods("GET")

	ops := api.NewRoute().Subrouter()
	ops.Use(protect)
	ops.HandleFunc("/camera", h.SetCamera).Methods("POST")
	ops.HandleFunc("/nodes/{id}/transform", h.SetTransform).Methods("POST")
	ops.HandleFunc("/nodes/{id}/animate", h.Animate).Methods("POST")
}
