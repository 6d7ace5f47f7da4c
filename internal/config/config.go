package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// LLM vendors. Each key is independently optional; an empty key
	// disables that vendor rather than crashing at start-up.
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterSiteURL string
	OpenRouterAppName string
	GroqAPIKey        string
	GroqBaseURL       string
	CohereAPIKey      string
	CohereBaseURL     string

	// Media vendors.
	ImageAPIURL string
	ImageAPIKey string
	TTSAPIURL   string
	TTSAPIKey   string
	EdgeTTSURL  string

	// External identity provider.
	IdentityProjectID string
	IdentityCertsURL  string
	IdentityCacheTTL  time.Duration

	// Router tuning.
	ChatMaxAttempts    int
	ChatRetryBase      time.Duration
	ChatRateLimitBase  time.Duration
	ChatRequestTimeout time.Duration
	ChatCandidateDelay time.Duration

	// Optional audit event queue.
	RabbitURL   string
	RabbitQueue string
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return def
}

// Load reads configuration from the environment, with a best-effort .env
// load first so local runs pick up the same variables as deployments.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:  envStr("PORT", "8080"),
		DBDSN: os.Getenv("DB_DSN"),

		RedisAddr:     envStr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envStr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterSiteURL: envStr("OPENROUTER_SITE_URL", "https://milkyai.com"),
		OpenRouterAppName: envStr("OPENROUTER_APP_NAME", "MilkyAI"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:       envStr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		CohereAPIKey:      os.Getenv("COHERE_API_KEY"),
		CohereBaseURL:     envStr("COHERE_BASE_URL", "https://api.cohere.com/v1"),

		ImageAPIURL: os.Getenv("IMAGE_API_URL"),
		ImageAPIKey: os.Getenv("IMAGE_API_KEY"),
		TTSAPIURL:   os.Getenv("TTS_API_URL"),
		TTSAPIKey:   os.Getenv("TTS_API_KEY"),
		EdgeTTSURL:  os.Getenv("EDGE_TTS_URL"),

		IdentityProjectID: os.Getenv("IDENTITY_PROJECT_ID"),
		IdentityCertsURL: envStr("IDENTITY_CERTS_URL",
			"https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"),
		IdentityCacheTTL: envMillis("IDENTITY_CACHE_TTL_MS", 30*time.Minute),

		ChatMaxAttempts:    envInt("CHAT_MAX_ATTEMPTS", 2),
		ChatRetryBase:      envMillis("CHAT_RETRY_BASE_MS", 500*time.Millisecond),
		ChatRateLimitBase:  envMillis("CHAT_RATE_LIMIT_BASE_MS", 2*time.Second),
		ChatRequestTimeout: envMillis("CHAT_REQUEST_TIMEOUT_MS", 60*time.Second),
		ChatCandidateDelay: envMillis("CHAT_CANDIDATE_DELAY_MS", 300*time.Millisecond),

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: envStr("RABBIT_QUEUE", "chat_events"),
	}
}
