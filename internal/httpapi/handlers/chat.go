package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/httpapi/middleware"
	"github.com/milkyai/milky-relay/internal/llm"
	"github.com/milkyai/milky-relay/internal/prompt"
	"github.com/milkyai/milky-relay/internal/store/rabbitmq"
)

type chatReq struct {
	Message          string              `json:"message"`
	Model            string              `json:"model"`
	ChatHistory      []prompt.RawMessage `json:"chatHistory"`
	DeepThinkingMode bool                `json:"deepThinkingMode"`
	ChatID           string              `json:"chatId"`
}

// Chat relays one turn: assemble the prompt, route it with fallback,
// persist the turn pair best-effort, disclose the model actually used.
func (h *Handler) Chat(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "No valid authorization token")
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Message == "" {
		common.Fail(c, http.StatusBadRequest, "No message provided")
		return
	}

	requested := h.Catalog.Resolve(req.Model)
	messages := prompt.Assemble(req.ChatHistory, req.Message, requested, req.DeepThinkingMode)
	candidates := h.Catalog.Candidates(requested.Key)

	start := time.Now()
	result, err := h.Router.Route(c.Request.Context(), messages, candidates)
	if err != nil {
		h.failChat(c, err)
		return
	}

	chatID := h.persistTurn(c.Request.Context(), subject, req.ChatID, req.Message, result.Text)
	h.publishEvent(c.Request.Context(), rabbitmq.ChatEvent{
		ChatID:    chatID,
		SubjectID: subject,
		ModelKey:  result.Model.Key,
		Vendor:    string(result.Model.Vendor),
		Fallback:  result.Model.Key != requested.Key,
		LatencyMs: time.Since(start).Milliseconds(),
	})

	body := gin.H{
		"response":           result.Text,
		"model_used":         result.Model.ProviderID,
		"model_key":          result.Model.Key,
		"model_display_name": result.Model.DisplayName,
	}
	if chatID != "" {
		body["chatId"] = chatID
	}
	common.OK(c, http.StatusOK, body)
}

// failChat maps router failures onto the error surface: 500 for an
// unconfigured vendor, 504 when every candidate timed out, 429 when every
// candidate was rate-limited, 500 otherwise. Exhaustion responses carry
// retry_recommended so the caller knows the whole operation may be rerun.
func (h *Handler) failChat(c *gin.Context, err error) {
	var ex *llm.ExhaustedError
	if errors.As(err, &ex) {
		switch ex.Kind {
		case llm.AllTimedOut:
			common.FailRetry(c, http.StatusGatewayTimeout, "All model providers timed out")
		case llm.AllRateLimited:
			common.FailRetry(c, http.StatusTooManyRequests, "All model providers are rate limited")
		default:
			common.FailRetry(c, http.StatusInternalServerError, "All model providers failed")
		}
		return
	}

	var le *llm.Error
	if errors.As(err, &le) && le.Kind == llm.FailUnconfigured {
		common.Fail(c, http.StatusInternalServerError, string(le.Vendor)+" API key not configured")
		return
	}

	h.Logger.Error("chat relay failed", zap.Error(err))
	common.Fail(c, http.StatusInternalServerError, "Internal server error")
}

// persistTurn appends the user/assistant pair. Failures are logged and
// swallowed: a generated reply is returned even when saving it fails.
func (h *Handler) persistTurn(ctx context.Context, subject, chatID, userInput, reply string) string {
	if h.Store == nil {
		return ""
	}

	id, err := h.Store.EnsureChat(ctx, subject, chatID)
	if err != nil {
		h.Logger.Warn("chat lookup/create failed", zap.String("chat_id", chatID), zap.Error(err))
		return ""
	}
	if err := h.Store.SaveTurn(ctx, id, userInput, reply); err != nil {
		h.Logger.Warn("turn persistence failed", zap.String("chat_id", id), zap.Error(err))
	}
	return id
}

func (h *Handler) publishEvent(ctx context.Context, ev rabbitmq.ChatEvent) {
	if h.Events == nil {
		return
	}
	if err := h.Events.PublishChatEvent(ctx, ev); err != nil {
		h.Logger.Warn("chat event publish failed", zap.Error(err))
	}
}
