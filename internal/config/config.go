// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string

	OpenAIAPIKey   string
	AssistantModel string
	// RunPollIntervalMS is how often a conversation turn polls the remote
	// run status; RunTimeoutSeconds bounds the whole wait.
	RunPollIntervalMS int
	RunTimeoutSeconds int

	MaxFileSizeMB     int
	MaxThreadMessages int
	MaxMessageLength  int

	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	MinioPublicBase string

	RedisAddr     string
	RedisPassword string

	Environment string
}

// AllowedExtensions is the upload allow-set. Anything else is rejected
// before any remote call is made.
var AllowedExtensions = []string{".pdf", ".docx", ".doc", ".txt", ".md"}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "preceptor.db"),
		JWTSecretKey:      getEnv("JWT_SECRET_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		AssistantModel:    getEnv("ASSISTANT_MODEL", "gpt-4-turbo-preview"),
		RunPollIntervalMS: getEnvAsInt("RUN_POLL_INTERVAL_MS", 1000),
		RunTimeoutSeconds: getEnvAsInt("RUN_TIMEOUT_SECONDS", 120),
		MaxFileSizeMB:     getEnvAsInt("MAX_FILE_SIZE_MB", 20),
		MaxThreadMessages: getEnvAsInt("MAX_THREAD_MESSAGES", 100),
		MaxMessageLength:  getEnvAsInt("MAX_MESSAGE_LENGTH", 4000),
		MinioEndpoint:     getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:       getEnv("MINIO_BUCKET", "documents"),
		MinioUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinioPublicBase:   getEnv("MINIO_PUBLIC_BASE_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		Environment:       env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if cfg.MinioAccessKey == "" || cfg.MinioAccessKey == "minioadmin" {
			missing = append(missing, "MINIO_ACCESS_KEY")
		}
		if cfg.MinioSecretKey == "" || cfg.MinioSecretKey == "minioadmin" {
			missing = append(missing, "MINIO_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// MaxFileSizeBytes returns the upload ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return boolValue
}
