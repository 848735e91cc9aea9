package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI     string
	TelegramToken   string
	ListenAddr      string
	APIKey          string
	AIAPIKey        string
	AIBaseURL       string
	AIModel         string
	DigestCron      string
	DefaultTimezone string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:     os.Getenv("DATABASE_URI"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		ListenAddr:      getEnvOrDefault("LISTEN_ADDR", ":8080"),
		APIKey:          os.Getenv("API_KEY"),
		AIAPIKey:        os.Getenv("AI_API_KEY"),
		AIBaseURL:       getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:         getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		DigestCron:      getEnvOrDefault("DIGEST_CRON", "*/10 * * * *"),
		DefaultTimezone: getEnvOrDefault("DEFAULT_TIMEZONE", "Australia/Sydney"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
