package proto

import "encoding/json"

// Inbound is the envelope for frames a UI sends over the view feed.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeSend = "send"

	OutboundTypeUpdate = "update"
	OutboundTypeAck    = "ack"
	OutboundTypeError  = "error"
)

// SendData asks the engine to deliver content under the session nickname.
type SendData struct {
	Content string `json:"content"`
	Ref     string `json:"ref,omitempty"`
}

// Outbound is the envelope for frames sent to the UI.
type Outbound struct {
	Type  string `json:"type"`
	Ref   string `json:"ref,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Message is a positioned chat message as rendered by a UI.
type Message struct {
	Sender   string `json:"sender"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// Session describes the joined nickname and connection status.
type Session struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	Status     string `json:"status"`
	StatusText string `json:"status_text"`
	LastError  string `json:"last_error,omitempty"`
}

// Update carries the full view and session after a state change.
type Update struct {
	Protocol int       `json:"protocol"`
	View     []Message `json:"view"`
	Session  Session   `json:"session"`
}

// Error describes a failed request.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
