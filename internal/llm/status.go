package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// KeyStatus is the diagnostic result of the upstream key check. It never
// carries the key itself.
type KeyStatus struct {
	Valid      bool   `json:"valid"`
	Label      string `json:"label,omitempty"`
	IsFreeTier bool   `json:"is_free_tier"`
	Detail     string `json:"detail,omitempty"`
}

type openRouterKeyResp struct {
	Data struct {
		Label      string `json:"label"`
		IsFreeTier bool   `json:"is_free_tier"`
	} `json:"data"`
}

// CheckKey probes OpenRouter's key endpoint to report whether the
// configured credential is still accepted upstream.
func (c *OpenRouterClient) CheckKey(ctx context.Context) KeyStatus {
	if !c.Configured() {
		return KeyStatus{Valid: false, Detail: "api key not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/auth/key", strings.TrimRight(c.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return KeyStatus{Valid: false, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return KeyStatus{Valid: false, Detail: "upstream unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return KeyStatus{Valid: false, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var decoded openRouterKeyResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return KeyStatus{Valid: false, Detail: "malformed response"}
	}
	return KeyStatus{Valid: true, Label: decoded.Data.Label, IsFreeTier: decoded.Data.IsFreeTier}
}
