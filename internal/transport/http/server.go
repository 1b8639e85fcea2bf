package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/config"
	"github.com/vovakirdan/lanchat/internal/transport/middleware"
)

// NewRouter builds the handler for the local UI bridge. The view feed is
// mounted beside the gin routes because it must hijack an unwritten response.
func NewRouter(eng Engine, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	api := NewAPIHandlers(eng, logger)
	limiter := newRateLimiter(cfg.SendRateLimit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	router.GET("/health", healthHandler)

	group := router.Group("/api")
	group.GET("/view", api.View)
	group.GET("/session", api.Session)
	group.POST("/send", rateLimitMiddleware(limiter, logger), api.Send)

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", newWSHandler(eng, limiter, logger))
	mux.Handle("/", router)
	return mux
}

// NewServer builds an HTTP server serving the UI bridge on cfg.UIAddr.
func NewServer(eng Engine, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.UIAddr,
		Handler:           NewRouter(eng, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
