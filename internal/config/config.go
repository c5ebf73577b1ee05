package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	Environment string
	AppId       string

	// CryptoKey protects stored credential secrets. Must be a 32-byte hex
	// string (64 characters).
	CryptoKey string

	// System sender used for transactional mail (password resets). User
	// campaigns always go out through a stored credential instead.
	SMTPHost     string
	SMTPPort     int
	SystemEmail  string
	SystemSecret string

	// Per-recipient delivery attempt timeout for the send pipeline.
	SendTimeout time.Duration

	OpenRouterKey string
	OpenRouterURL string
	AIModel       string

	FrontendURL string
	FSPath      string // Physical directory for resume uploads
	FSURL       string // URL path prefix for file access
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "mailflow"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "mailflow"),

		CryptoKey: getEnv("CRYPTO_KEY", ""),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SystemEmail:  getEnv("SYSTEM_EMAIL", ""),
		SystemSecret: getEnv("SYSTEM_EMAIL_PASSWORD", ""),

		SendTimeout: getEnvDuration("SEND_TIMEOUT", 30*time.Second),

		OpenRouterKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1/chat/completions"),
		AIModel:       getEnv("AI_MODEL", "mistralai/mistral-7b-instruct"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		FSPath:      getEnv("FS_PATH", "./uploads"),
		FSURL:       getEnv("FS_URL", "/uploads"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
