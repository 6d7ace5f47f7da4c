package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/media"
)

// ImageGen proxies a prompt to the image vendor.
func (h *Handler) ImageGen(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
		N      int    `json:"n"`
		Size   string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Prompt == "" {
		common.Fail(c, http.StatusBadRequest, "No prompt provided")
		return
	}

	images, err := h.Image.Generate(c.Request.Context(), req.Prompt, req.N, req.Size)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			common.Fail(c, http.StatusInternalServerError, "Image API key not configured")
			return
		}
		h.Logger.Error("image generation failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Image generation failed")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"images": images})
}

type ttsReq struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// TTS proxies text to the speech vendor and returns base64 audio.
func (h *Handler) TTS(c *gin.Context) {
	var req ttsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Text == "" {
		common.Fail(c, http.StatusBadRequest, "No text provided")
		return
	}

	audio, err := h.Speech.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			common.Fail(c, http.StatusInternalServerError, "TTS API key not configured")
			return
		}
		h.Logger.Error("speech synthesis failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Speech synthesis failed")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"audio_data": audio})
}

// EdgeTTS proxies text to the edge-tts service and returns a playback URL.
func (h *Handler) EdgeTTS(c *gin.Context) {
	var req ttsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Text == "" {
		common.Fail(c, http.StatusBadRequest, "No text provided")
		return
	}

	audioURL, err := h.Edge.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			common.Fail(c, http.StatusInternalServerError, "Edge TTS service not configured")
			return
		}
		h.Logger.Error("edge-tts synthesis failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Speech synthesis failed")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"audio_url": audioURL})
}

// Voices returns the selectable voice groups.
func (h *Handler) Voices(c *gin.Context) {
	common.OK(c, http.StatusOK, media.Voices)
}
