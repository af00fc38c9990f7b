package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config — все настройки процесса, читаются из окружения.
type Config struct {
	Port    string
	AppEnv  string
	LogFile string

	LogLevel         string
	MetricsNamespace string

	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIModel          string
	OpenAIEmbeddingModel string

	KnowledgeDir string
	RAGTopK      int
	RAGMinScore  float64
	RAGMaxChunks int

	DatabaseURL string

	AdminNumber string
	NotifyURL   string
	NotifyToken string

	TurnTimeout time.Duration
}

// Load читает .env (если есть) и окружение, подставляя значения по умолчанию.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 envOrDefault("PORT", "8080"),
		AppEnv:               envOrDefault("APP_ENV", "development"),
		LogFile:              trimmed("LOG_FILE"),
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
		MetricsNamespace:     envOrDefault("METRICS_NAMESPACE", "salesbot"),
		OpenAIAPIKey:         trimmed("OPENAI_API_KEY"),
		OpenAIBaseURL:        trimmed("OPENAI_BASE_URL"),
		OpenAIModel:          envOrDefault("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIEmbeddingModel: envOrDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		KnowledgeDir:         envOrDefault("KNOWLEDGE_DIR", "knowledge"),
		DatabaseURL:          trimmed("DATABASE_URL"),
		AdminNumber:          trimmed("ADMIN_NUMBER"),
		NotifyURL:            trimmed("NOTIFY_URL"),
		NotifyToken:          trimmed("NOTIFY_TOKEN"),
	}

	var err error
	if cfg.RAGTopK, err = intFromEnv("RAG_TOP_K", 3); err != nil {
		return Config{}, err
	}
	if cfg.RAGMaxChunks, err = intFromEnv("RAG_MAX_CHUNKS", 2); err != nil {
		return Config{}, err
	}
	if cfg.RAGMinScore, err = floatFromEnv("RAG_MIN_SCORE", 0.22); err != nil {
		return Config{}, err
	}
	if cfg.TurnTimeout, err = durationFromEnv("TURN_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func trimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOrDefault(key, def string) string {
	if v := trimmed(key); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) (int, error) {
	v := trimmed(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func floatFromEnv(key string, def float64) (float64, error) {
	v := trimmed(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return 0, fmt.Errorf("%s must be a number in [0,1], got %q", key, v)
	}
	return f, nil
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := trimmed(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
