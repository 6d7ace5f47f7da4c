package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Voices is the selectable neural voice set, grouped for the client's
// voice picker.
var Voices = map[string][]string{
	"male": {
		"en-AU-WilliamNeural",
		"en-GB-RyanNeural",
		"en-NZ-MitchellNeural",
		"en-US-GuyNeural",
		"en-CA-LiamNeural",
		"en-IN-PrabhatNeural",
	},
	"female": {
		"en-AU-NatashaNeural",
		"en-GB-SoniaNeural",
		"en-US-AvaNeural",
		"en-US-JennyNeural",
		"en-CA-ClaraNeural",
		"en-IN-NeerjaNeural",
	},
}

const DefaultVoice = "en-US-AvaNeural"

// SpeechClient proxies text -> audio against the speech vendor, which
// answers with raw mp3 bytes. The relay hands them on base64-encoded.
type SpeechClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewSpeechClient(baseURL, apiKey string) *SpeechClient {
	return &SpeechClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *SpeechClient) Configured() bool {
	return c.BaseURL != "" && strings.TrimSpace(c.APIKey) != ""
}

type speechReq struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize returns base64 mp3 audio for text.
func (c *SpeechClient) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if voice == "" {
		voice = DefaultVoice
	}

	b, err := json.Marshal(speechReq{Text: text, Voice: voice})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/synthesize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2*1024))
		return "", fmt.Errorf("speech vendor: status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", errors.New("speech vendor: empty audio")
	}
	return base64.StdEncoding.EncodeToString(audio), nil
}

// EdgeTTSClient proxies against the hosted edge-tts service, which
// writes the mp3 itself and answers with a playback URL.
type EdgeTTSClient struct {
	BaseURL string
	Client  *http.Client
}

func NewEdgeTTSClient(baseURL string) *EdgeTTSClient {
	return &EdgeTTSClient{BaseURL: baseURL, Client: &http.Client{Timeout: 60 * time.Second}}
}

func (c *EdgeTTSClient) Configured() bool { return c.BaseURL != "" }

type edgeTTSResp struct {
	AudioURL string `json:"audio_url"`
	Error    string `json:"error,omitempty"`
}

// Synthesize returns the URL of the generated audio file.
func (c *EdgeTTSClient) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if voice == "" {
		voice = DefaultVoice
	}

	b, err := json.Marshal(speechReq{Text: text, Voice: voice})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/api/tts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2*1024))
		return "", fmt.Errorf("edge-tts: status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	var decoded edgeTTSResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != "" {
		return "", errors.New(decoded.Error)
	}
	if decoded.AudioURL == "" {
		return "", errors.New("edge-tts: empty audio url")
	}
	return decoded.AudioURL, nil
}
