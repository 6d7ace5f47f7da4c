package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/chat"
	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/httpapi/middleware"
)

// storeReady guards the conversation CRUD routes when persistence is not
// configured.
func (h *Handler) storeReady(c *gin.Context) (string, bool) {
	subject, ok := middleware.Subject(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "No valid authorization token")
		return "", false
	}
	if h.Store == nil {
		common.Fail(c, http.StatusInternalServerError, "Database not available")
		return "", false
	}
	return subject, true
}

func (h *Handler) ListChats(c *gin.Context) {
	subject, ok := h.storeReady(c)
	if !ok {
		return
	}

	chats, err := h.Store.ListChats(c.Request.Context(), subject)
	if err != nil {
		h.Logger.Error("list chats failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if chats == nil {
		chats = []chat.Chat{}
	}
	common.OK(c, http.StatusOK, chats)
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	subject, ok := h.storeReady(c)
	if !ok {
		return
	}

	msgs, err := h.Store.ListMessages(c.Request.Context(), subject, c.Param("id"))
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, "Chat not found")
			return
		}
		h.Logger.Error("list messages failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	common.OK(c, http.StatusOK, msgs)
}

func (h *Handler) RenameChat(c *gin.Context) {
	subject, ok := h.storeReady(c)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.Store.RenameChat(c.Request.Context(), subject, c.Param("id"), req.Title); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, "Chat not found")
			return
		}
		h.Logger.Error("rename chat failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DeleteChat(c *gin.Context) {
	subject, ok := h.storeReady(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteChat(c.Request.Context(), subject, c.Param("id")); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, "Chat not found")
			return
		}
		h.Logger.Error("delete chat failed", zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"success": true})
}
