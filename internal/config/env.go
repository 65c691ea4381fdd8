package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Settings are the values that change per deployment. Everything else is a constant above.
type Settings struct {
	IsProd bool

	RedisAddr     string
	RedisPassword string

	DatabaseURL string

	QdrantHost string
	QdrantPort int

	AIGatewayURL       string
	AIGatewayKey       string
	AIModel            string
	GoogleAPIKey       string
	StructurerProvider string

	AuthToken    string
	NoAuthBypass bool
}

var (
	settings     Settings
	settingsOnce sync.Once
)

// Load reads .env (if present) and the process environment once.
func Load() Settings {
	settingsOnce.Do(func() {
		_ = godotenv.Load()
		settings = Settings{
			IsProd:             getEnv("APP_ENV", "dev") == "prod",
			RedisAddr:          getEnv("REDIS_ADDR", RedisAddr),
			RedisPassword:      getEnv("REDIS_PASSWORD", ""),
			DatabaseURL:        getEnv("DATABASE_URL", ""),
			QdrantHost:         getEnv("QDRANT_HOST", ""),
			QdrantPort:         getEnvInt("QDRANT_PORT", QdrantGrpcPort),
			AIGatewayURL:       getEnv("AI_GATEWAY_URL", DefaultAIGatewayURL),
			AIGatewayKey:       getEnv("AI_GATEWAY_KEY", ""),
			AIModel:            getEnv("AI_MODEL", StructurerModelName),
			GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
			StructurerProvider: getEnv("STRUCTURER_PROVIDER", ProviderGateway),
			AuthToken:          getEnv("AUTH_TOKEN", ""),
			NoAuthBypass:       getEnvBool("NO_AUTH_BYPASS", false),
		}
	})
	return settings
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
