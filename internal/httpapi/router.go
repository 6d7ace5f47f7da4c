package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/httpapi/handlers"
	"github.com/milkyai/milky-relay/internal/httpapi/middleware"
	"github.com/milkyai/milky-relay/internal/identity"
)

// NewRouter wires the API surface. Media and metadata routes are public;
// chat and history sit behind token verification.
func NewRouter(h *handlers.Handler, verifier identity.Verifier, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "Not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.GET("/api/health", h.Health)
	r.GET("/api/models", h.Models)
	r.GET("/api/status", h.Status)
	r.GET("/api/tts/voices", h.Voices)

	r.POST("/api/image-gen", h.ImageGen)
	r.POST("/api/tts", h.TTS)
	r.POST("/api/edge-tts", h.EdgeTTS)

	authed := r.Group("/")
	authed.Use(middleware.AuthRequired(verifier))
	authed.POST("/api/chat", h.Chat)
	authed.GET("/api/chats", h.ListChats)
	authed.GET("/api/chats/:id/messages", h.ListChatMessages)
	authed.PUT("/api/chats/:id", h.RenameChat)
	authed.DELETE("/api/chats/:id", h.DeleteChat)

	return r
}
