package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/core"
	"github.com/vovakirdan/lanchat/internal/engine"
)

// Engine is the part of the chat engine exposed to a UI.
type Engine interface {
	View() []core.ChatMessage
	Session() (core.SessionSnapshot, error)
	Send(ctx context.Context, content string) error
	Subscribe() (string, <-chan engine.Update)
	Unsubscribe(id string)
}

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	engine Engine
	log    *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(eng Engine, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		engine: eng,
		log:    logger,
	}
}

// SendRequest represents the send request body.
type SendRequest struct {
	Content string `json:"content"`
}

// OKResponse acknowledges an accepted request.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// View returns the current ordered view.
// GET /api/view
func (h *APIHandlers) View(c *gin.Context) {
	c.JSON(http.StatusOK, messagesToProto(h.engine.View()))
}

// Session returns the joined session and its status.
// GET /api/session
func (h *APIHandlers) Session(c *gin.Context) {
	s, err := h.engine.Session()
	if err != nil {
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error(), Code: core.Code(err)})
		return
	}
	c.JSON(http.StatusOK, sessionToProto(s))
}

// Send delivers a message under the session nickname.
// POST /api/send
func (h *APIHandlers) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid send request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.engine.Send(c.Request.Context(), req.Content); err != nil {
		status := statusForError(err)
		if errors.Is(err, core.ErrSendError) {
			h.log.Warn().Err(err).Msg("send via ui bridge failed")
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: core.Code(err)})
		return
	}

	c.JSON(http.StatusOK, OKResponse{OK: true})
}
