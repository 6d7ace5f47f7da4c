package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/milkyai/milky-relay/internal/models"
)

// GroqClient talks to Groq's OpenAI-compatible completions API. Same
// envelope as OpenRouter, plain bearer auth.
type GroqClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewGroqClient(baseURL, apiKey string) *GroqClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return &GroqClient{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{}}
}

func (c *GroqClient) Vendor() models.Vendor { return models.VendorGroq }

func (c *GroqClient) Configured() bool { return strings.TrimSpace(c.APIKey) != "" }

type groqChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *GroqClient) SendChat(ctx context.Context, messages []Message, providerID string) (string, error) {
	if !c.Configured() {
		return "", newUnconfigured(c.Vendor())
	}

	body := chatCompletionReq{
		Model:       providerID,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.BaseURL, "/"))
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}

	var decoded groqChatResp
	if err := postJSON(ctx, c.Client, c.Vendor(), url, headers, body, &decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", &Error{Kind: FailFatal, Vendor: c.Vendor(), Msg: decoded.Error.Message}
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}
