package inspect

import (
	"encoding/json"

	"github.com/inamate/stage/internal/engine"
)

type Message struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome        = "welcome"
	TypeInspectorJoin  = "inspector.join"
	TypeInspectorLeave = "inspector.leave"
	TypeError          = "error"

	// Server → inspector
	TypeFrameReport = "frame.report"
	TypeNodeInfo    = "node.info"
	TypeNodeHit     = "node.hit"

	// Inspector → server
	TypeNodeDescribe = "node.describe"
	TypePointer      = "pointer"
)

type WelcomePayload struct {
	ClientID   string   `json:"clientId"`
	Inspectors []string `json:"inspectors"`
}

type InspectorPayload struct {
	ClientID string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// FrameReportPayload is engine.FrameReport with the duration in
// milliseconds.
type FrameReportPayload struct {
	Frame      int            `json:"frame"`
	Patches    map[string]int `json:"patches"`
	DurationMS float64        `json:"durationMs"`
}

type NodeDescribePayload struct {
	ID int `json:"id"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeHitPayload struct {
	X    float64          `json:"x"`
	Y    float64          `json:"y"`
	Node *engine.NodeInfo `json:"node"`
}

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
