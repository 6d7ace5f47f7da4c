package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/milkyai/milky-relay/internal/models"
)

// OpenRouterClient talks to OpenRouter's OpenAI-compatible completions API.
type OpenRouterClient struct {
	BaseURL string
	APIKey  string
	SiteURL string
	AppName string
	Client  *http.Client
}

func NewOpenRouterClient(baseURL, apiKey, siteURL, appName string) *OpenRouterClient {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouterClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		SiteURL: siteURL,
		AppName: appName,
		Client:  &http.Client{},
	}
}

func (c *OpenRouterClient) Vendor() models.Vendor { return models.VendorOpenRouter }

func (c *OpenRouterClient) Configured() bool { return strings.TrimSpace(c.APIKey) != "" }

type openRouterChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenRouterClient) headers() map[string]string {
	h := map[string]string{"Authorization": "Bearer " + c.APIKey}
	if c.SiteURL != "" {
		h["HTTP-Referer"] = c.SiteURL
	}
	if c.AppName != "" {
		h["X-Title"] = c.AppName
	}
	return h
}

func (c *OpenRouterClient) SendChat(ctx context.Context, messages []Message, providerID string) (string, error) {
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

	var decoded openRouterChatResp
	if err := postJSON(ctx, c.Client, c.Vendor(), url, c.headers(), body, &decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", &Error{Kind: FailFatal, Vendor: c.Vendor(), Msg: decoded.Error.Message}
	}

	// Missing choices or a blank message normalize to "", which the
	// router treats as a reason to move on to the next candidate.
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}
