// Package media holds the pass-through clients for the image-generation
// and speech vendors. These do no routing or retrying; they reshape one
// vendor envelope into the API's response and report failures upward.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured marks a vendor whose credential or URL is absent.
var ErrNotConfigured = errors.New("media: vendor not configured")

// ImageClient proxies prompt -> image URLs against the image vendor.
type ImageClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewImageClient(baseURL, apiKey string) *ImageClient {
	return &ImageClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *ImageClient) Configured() bool {
	return c.BaseURL != "" && strings.TrimSpace(c.APIKey) != ""
}

type imageGenReq struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

// imageGenResp tolerates the two envelope shapes the vendor has shipped:
// data[].url (and b64_json) or a bare images[] list.
type imageGenResp struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Images []string `json:"images"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate returns image URLs (or data URIs) for a prompt.
func (c *ImageClient) Generate(ctx context.Context, prompt string, n int, size string) ([]string, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if n <= 0 || n > 4 {
		n = 1
	}

	b, err := json.Marshal(imageGenReq{Prompt: prompt, N: n, Size: size})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2*1024))
		return nil, fmt.Errorf("image vendor: status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	var decoded imageGenResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, errors.New(decoded.Error.Message)
	}

	var images []string
	for _, d := range decoded.Data {
		switch {
		case d.URL != "":
			images = append(images, d.URL)
		case d.B64JSON != "":
			images = append(images, "data:image/png;base64,"+d.B64JSON)
		}
	}
	images = append(images, decoded.Images...)
	if len(images) == 0 {
		return nil, errors.New("image vendor: empty response")
	}
	return images, nil
}
