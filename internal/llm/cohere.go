package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/milkyai/milky-relay/internal/models"
)

// CohereClient talks to Cohere's chat API. Unlike the OpenAI-compatible
// vendors it takes the system prompt as a preamble, prior turns as
// chat_history, the new turn as a single message, and replies with a flat
// top-level text field instead of a choices list.
type CohereClient struct {
	BaseURL string
	APIKey  string
	AppName string
	Client  *http.Client
}

func NewCohereClient(baseURL, apiKey, appName string) *CohereClient {
	if baseURL == "" {
		baseURL = "https://api.cohere.com/v1"
	}
	return &CohereClient{BaseURL: baseURL, APIKey: apiKey, AppName: appName, Client: &http.Client{}}
}

func (c *CohereClient) Vendor() models.Vendor { return models.VendorCohere }

func (c *CohereClient) Configured() bool { return strings.TrimSpace(c.APIKey) != "" }

type cohereHistoryMsg struct {
	Role    string `json:"role"` // USER or CHATBOT
	Message string `json:"message"`
}

type cohereChatReq struct {
	Model       string             `json:"model"`
	Message     string             `json:"message"`
	Preamble    string             `json:"preamble,omitempty"`
	ChatHistory []cohereHistoryMsg `json:"chat_history,omitempty"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

type cohereChatResp struct {
	Text    string `json:"text"`
	Message string `json:"message,omitempty"` // error detail on failures that still decode
}

func (c *CohereClient) SendChat(ctx context.Context, messages []Message, providerID string) (string, error) {
	if !c.Configured() {
		return "", newUnconfigured(c.Vendor())
	}

	body := cohereChatReq{
		Model:       providerID,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	}
	for i, m := range messages {
		switch {
		case m.Role == RoleSystem:
			body.Preamble = m.Content
		case i == len(messages)-1 && m.Role == RoleUser:
			body.Message = m.Content
		case m.Role == RoleAssistant:
			body.ChatHistory = append(body.ChatHistory, cohereHistoryMsg{Role: "CHATBOT", Message: m.Content})
		default:
			body.ChatHistory = append(body.ChatHistory, cohereHistoryMsg{Role: "USER", Message: m.Content})
		}
	}

	url := fmt.Sprintf("%s/chat", strings.TrimRight(c.BaseURL, "/"))
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}
	if c.AppName != "" {
		headers["X-Client-Name"] = c.AppName
	}

	var decoded cohereChatResp
	if err := postJSON(ctx, c.Client, c.Vendor(), url, headers, body, &decoded); err != nil {
		return "", err
	}
	// A 2xx with no text normalizes to "" and the router advances.
	return decoded.Text, nil
}
