package logserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/config"
	"github.com/vovakirdan/lanchat/internal/remote"
	"github.com/vovakirdan/lanchat/internal/transport/middleware"
)

// Handlers serves the chat log over the remote boundary used by the client.
type Handlers struct {
	log    *Log
	logger *zerolog.Logger
}

// NewHandlers creates handlers backed by chatLog.
func NewHandlers(chatLog *Log, logger *zerolog.Logger) *Handlers {
	return &Handlers{log: chatLog, logger: logger}
}

// NewRouter builds the gin router exposing the log endpoints.
func NewRouter(chatLog *Log, logger *zerolog.Logger) *gin.Engine {
	h := NewHandlers(chatLog, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.Logger(logger))

	router.GET(remote.MessagesPath, h.Messages)
	router.OPTIONS(remote.MessagesPath, preflight)
	router.POST(remote.SendMessagePath, h.SendMessage)
	router.OPTIONS(remote.SendMessagePath, preflight)

	return router
}

// NewServer builds an HTTP server for the development log.
func NewServer(chatLog *Log, cfg *config.Config, logger *zerolog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           NewRouter(chatLog, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// Messages returns the full log as a JSON array of strings.
// GET /api/messages
func (h *Handlers) Messages(c *gin.Context) {
	messages := h.log.Snapshot()
	h.logger.Debug().Int("count", len(messages)).Msg("served messages")
	c.JSON(http.StatusOK, messages)
}

// SendMessage appends a JSON-encoded string to the log.
// POST /api/sendMessage
func (h *Handlers) SendMessage(c *gin.Context) {
	var msg string
	if err := c.ShouldBindJSON(&msg); err != nil {
		h.logger.Debug().Err(err).Msg("invalid send request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON string"})
		return
	}

	h.log.Append(msg)
	h.logger.Info().Str("message", msg).Msg("message appended")
	c.Status(http.StatusOK)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Next()
	}
}

func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
