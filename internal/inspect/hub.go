// Package inspect streams frame reports to websocket inspectors and answers
// their queries about the scene.
package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/inamate/stage/internal/engine"
)

// Scene is the read side of the stage the inspectors query.
type Scene interface {
	Describe(id int) (engine.NodeInfo, error)
	HitTest(x, y float64) (engine.NodeInfo, bool)
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client

	scene      Scene
	seq        atomic.Int64
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(scene Scene) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		scene:      scene,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Len returns the number of connected inspectors.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	sort.Strings(ids)

	client.Send(newMessage(TypeWelcome, WelcomePayload{ClientID: client.ClientID, Inspectors: ids}))

	joinMsg := newMessage(TypeInspectorJoin, InspectorPayload{ClientID: client.ClientID})
	joinMsg.ClientID = client.ClientID
	h.broadcast(joinMsg, client.ClientID)

	slog.Info("inspector joined", "client", client.ClientID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	client.close()
	h.mu.Unlock()

	leaveMsg := newMessage(TypeInspectorLeave, InspectorPayload{ClientID: client.ClientID})
	leaveMsg.ClientID = client.ClientID
	h.broadcast(leaveMsg, "")

	slog.Info("inspector left", "client", client.ClientID)
}

func (h *Hub) closeAll() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

// PublishFrame sends a frame report to every inspector.
func (h *Hub) PublishFrame(report engine.FrameReport) {
	msg := newMessage(TypeFrameReport, FrameReportPayload{
		Frame:      report.Frame,
		Patches:    report.Patches,
		DurationMS: float64(report.Duration.Microseconds()) / 1000,
	})
	h.broadcast(msg, "")
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeNodeDescribe:
		h.handleDescribe(sender, msg)
	case TypePointer:
		h.handlePointer(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handleDescribe(sender *Client, msg *Message) {
	var req NodeDescribePayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "invalid describe payload"}))
		return
	}
	info, err := h.scene.Describe(req.ID)
	if err != nil {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: err.Error()}))
		return
	}
	sender.Send(newMessage(TypeNodeInfo, info))
}

func (h *Hub) handlePointer(sender *Client, msg *Message) {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "invalid pointer payload"}))
		return
	}
	out := NodeHitPayload{X: p.X, Y: p.Y}
	if info, ok := h.scene.HitTest(p.X, p.Y); ok {
		out.Node = &info
	}
	sender.Send(newMessage(TypeNodeHit, out))
}

func (h *Hub) broadcast(msg *Message, excludeClientID string) {
	msg.Seq = h.seq.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
