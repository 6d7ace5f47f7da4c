package handlers

import (
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/chat"
	"github.com/milkyai/milky-relay/internal/llm"
	"github.com/milkyai/milky-relay/internal/media"
	"github.com/milkyai/milky-relay/internal/models"
	"github.com/milkyai/milky-relay/internal/store/rabbitmq"
)

// Handler carries every collaborator a route can touch. Optional ones
// (store, events, media vendors) are nil / unconfigured when their
// credentials are absent; their routes answer with an explicit error.
type Handler struct {
	Catalog    *models.Catalog
	Router     *llm.Router
	OpenRouter *llm.OpenRouterClient
	Groq       *llm.GroqClient
	Cohere     *llm.CohereClient
	Store      *chat.Store
	Events     *rabbitmq.Publisher
	Image      *media.ImageClient
	Speech     *media.SpeechClient
	Edge       *media.EdgeTTSClient
	Logger     *zap.Logger
}

func New(h Handler) *Handler {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	return &h
}
