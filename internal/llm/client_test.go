package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterParsesEnvelope(t *testing.T) {
	var gotAuth, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		var req chatCompletionReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", req.Model)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello back"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "https://milkyai.com", "MilkyAI")
	text, err := c.SendChat(context.Background(), []Message{{Role: RoleUser, Content: "hello"}}, "deepseek/deepseek-chat-v3-0324:free")

	require.NoError(t, err)
	assert.Equal(t, "hello back", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "https://milkyai.com", gotReferer)
}

func TestOpenRouterMissingChoicesNormalizesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", "")
	text, err := c.SendChat(context.Background(), nil, "m")

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   FailKind
	}{
		{http.StatusTooManyRequests, FailRateLimited},
		{http.StatusInternalServerError, FailUpstream},
		{http.StatusBadGateway, FailUpstream},
		{http.StatusBadRequest, FailFatal},
		{http.StatusNotFound, FailFatal},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		c := NewGroqClient(srv.URL, "gsk-test")
		_, err := c.SendChat(context.Background(), nil, "m")
		srv.Close()

		var le *Error
		require.ErrorAs(t, err, &le, "status %d", tc.status)
		assert.Equal(t, tc.kind, le.Kind, "status %d", tc.status)
	}
}

func TestTimeoutClassifiedAsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "gsk-test")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.SendChat(ctx, nil, "m")

	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, FailTimeout, le.Kind)
	assert.True(t, le.Retryable())
}

func TestCohereFlatTextEnvelopeAndRequestShape(t *testing.T) {
	var got cohereChatReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"text":"flat answer"}`))
	}))
	defer srv.Close()

	c := NewCohereClient(srv.URL, "co-test", "MilkyAI")
	msgs := []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
	}
	text, err := c.SendChat(context.Background(), msgs, "command-r")

	require.NoError(t, err)
	assert.Equal(t, "flat answer", text)
	assert.Equal(t, "be brief", got.Preamble)
	assert.Equal(t, "q2", got.Message)
	require.Len(t, got.ChatHistory, 2)
	assert.Equal(t, "USER", got.ChatHistory[0].Role)
	assert.Equal(t, "CHATBOT", got.ChatHistory[1].Role)
}

func TestUnconfiguredClientsRefuseToSend(t *testing.T) {
	clients := []Client{
		NewOpenRouterClient("", "", "", ""),
		NewGroqClient("", ""),
		NewCohereClient("", "", ""),
	}
	for _, c := range clients {
		_, err := c.SendChat(context.Background(), nil, "m")
		var le *Error
		require.ErrorAs(t, err, &le, "%s", c.Vendor())
		assert.Equal(t, FailUnconfigured, le.Kind)
		assert.Equal(t, c.Vendor(), le.Vendor)
	}
}
