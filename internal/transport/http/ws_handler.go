package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/engine"
	"github.com/vovakirdan/lanchat/internal/proto"
)

// WSHandler streams engine updates to a UI and accepts send frames from it.
type WSHandler struct {
	engine  Engine
	limiter *rateLimiter
	log     *zerolog.Logger
}

// newWSHandler builds a new WebSocket handler.
func newWSHandler(eng Engine, limiter *rateLimiter, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{engine: eng, limiter: limiter, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	subID, updates := h.engine.Subscribe()
	defer h.engine.Unsubscribe(subID)
	h.log.Debug().Str("subscriber_id", subID).Msg("view feed connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, updates)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("subscriber_id", subID).Msg("view feed closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		send, protoErr, err := inboundToSend(inbound)
		if err != nil {
			return err
		}
		if protoErr != nil {
			if err := h.reply(ctx, conn, proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr}); err != nil {
				return err
			}
			continue
		}

		reply := proto.Outbound{Type: proto.OutboundTypeAck, Ref: send.Ref}
		if !h.limiter.allow() {
			reply = proto.Outbound{
				Type:  proto.OutboundTypeError,
				Ref:   send.Ref,
				Error: &proto.Error{Code: "rate_limited", Msg: "too many messages, slow down"},
			}
		} else if err := h.engine.Send(ctx, send.Content); err != nil {
			reply = proto.Outbound{Type: proto.OutboundTypeError, Ref: send.Ref, Error: errorToProto(err)}
		}
		if err := h.reply(ctx, conn, reply); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, updates <-chan engine.Update) error {
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			out := proto.Outbound{Type: proto.OutboundTypeUpdate, Data: updateToProto(u)}
			if err := wsjson.Write(ctx, conn, out); err != nil {
				h.log.Error().Err(err).Msg("write view update")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) reply(ctx context.Context, conn *websocket.Conn, out proto.Outbound) error {
	return wsjson.Write(ctx, conn, out)
}
