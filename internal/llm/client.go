package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/milkyai/milky-relay/internal/models"
)

// Client is the capability every chat vendor exposes: build its own
// headers, send one conversation, and extract assistant text from its own
// envelope. SendChat returns *Error on every failure path so the router
// can classify without knowing vendor shapes.
type Client interface {
	Vendor() models.Vendor
	Configured() bool
	SendChat(ctx context.Context, messages []Message, providerID string) (string, error)
}

// request body common to the OpenAI-compatible vendors.
type chatCompletionReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

const (
	chatTemperature = 0.7
	chatMaxTokens   = 4000
)

// postJSON sends one vendor request. The caller's ctx carries the
// per-attempt deadline; no client-level timeout is set on top of it.
// Non-2xx statuses come back as classified errors with a bounded body
// excerpt, never the raw vendor payload.
func postJSON(ctx context.Context, hc *http.Client, v models.Vendor, url string, headers map[string]string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: FailFatal, Vendor: v, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return &Error{Kind: FailFatal, Vendor: v, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return classifyTransport(v, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return classifyStatus(v, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: FailFatal, Vendor: v, Cause: err}
	}
	return nil
}
