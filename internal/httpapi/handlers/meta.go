package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/models"
)

// Models returns the static catalog and the default key.
func (h *Handler) Models(c *gin.Context) {
	common.OK(c, http.StatusOK, gin.H{
		"models":        h.Catalog.All(),
		"default_model": models.DefaultKey,
	})
}

// Status reports which vendors are configured plus the upstream key
// check. Diagnostic only; no credential material appears here.
func (h *Handler) Status(c *gin.Context) {
	vendors := gin.H{
		"openrouter": h.OpenRouter.Configured(),
		"groq":       h.Groq.Configured(),
		"cohere":     h.Cohere.Configured(),
		"image":      h.Image != nil && h.Image.Configured(),
		"tts":        h.Speech != nil && h.Speech.Configured(),
		"edge_tts":   h.Edge != nil && h.Edge.Configured(),
	}

	common.OK(c, http.StatusOK, gin.H{
		"status":           "running",
		"vendors":          vendors,
		"openrouter_key":   h.OpenRouter.CheckKey(c.Request.Context()),
		"available_models": len(h.Catalog.All()),
		"storage":          h.Store != nil,
	})
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(c *gin.Context) {
	common.OK(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}
