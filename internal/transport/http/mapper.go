package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vovakirdan/lanchat/internal/core"
	"github.com/vovakirdan/lanchat/internal/engine"
	"github.com/vovakirdan/lanchat/internal/proto"
)

func messagesToProto(view []core.ChatMessage) []proto.Message {
	out := make([]proto.Message, len(view))
	for i, msg := range view {
		out[i] = proto.Message{
			Sender:   msg.Sender,
			Content:  msg.Content,
			Position: msg.Position,
		}
	}
	return out
}

func sessionToProto(s core.SessionSnapshot) proto.Session {
	return proto.Session{
		ID:         s.ID,
		Nickname:   s.Nickname,
		Status:     string(s.Status),
		StatusText: s.Status.Text(),
		LastError:  s.LastError,
	}
}

func updateToProto(u engine.Update) proto.Update {
	return proto.Update{
		Protocol: proto.ProtocolVersion,
		View:     messagesToProto(u.View),
		Session:  sessionToProto(u.Session),
	}
}

// inboundToSend decodes a send frame. A non-nil proto.Error reports a client
// mistake that keeps the connection open.
func inboundToSend(inbound proto.Inbound) (*proto.SendData, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeSend:
		var send proto.SendData
		if err := json.Unmarshal(inbound.Data, &send); err != nil {
			return nil, &proto.Error{Code: "bad_request", Msg: "invalid send payload"}, nil
		}
		return &send, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func errorToProto(err error) *proto.Error {
	code := core.Code(err)
	if code == "" {
		code = "internal_error"
	}
	return &proto.Error{Code: code, Msg: err.Error()}
}

// statusForError maps engine errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotJoined):
		return http.StatusConflict
	case errors.Is(err, core.ErrSendError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
