package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	MaxWorkers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string

	// Upload handling
	UploadDir   string
	MaxFileSize int64

	// AI extraction configuration
	GeminiAPIKey      string
	GeminiModels      []string
	GeminiVisionModel string
	GeminiTimeout     time.Duration
	AIMaxAttempts     int
	AIBackoffBase     time.Duration
	SpreadsheetAI     bool

	// Persistence configuration (optional)
	PostgresURL string

	// Upload archival configuration (optional)
	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Get the executable directory
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	// Determine project root directory
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	// Load .env file if it exists
	if err := godotenv.Load(envPath); err != nil {
		// Try loading from current directory as fallback
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}

	// Create and populate config
	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 120)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "text"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		// Upload handling
		UploadDir:   getEnvString("UPLOAD_DIR", "uploads"),
		MaxFileSize: int64(getEnvInt("MAX_FILE_SIZE_MB", 10)) * 1024 * 1024,

		// AI extraction configuration
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModels:      getEnvStringSlice("GEMINI_MODELS", []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash-exp"}),
		GeminiVisionModel: getEnvString("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		GeminiTimeout:     time.Duration(getEnvInt("GEMINI_TIMEOUT", 60)) * time.Second,
		AIMaxAttempts:     getEnvInt("AI_MAX_ATTEMPTS", 2),
		AIBackoffBase:     time.Duration(getEnvInt("AI_BACKOFF_BASE", 5)) * time.Second,
		SpreadsheetAI:     getEnvBool("SPREADSHEET_AI_ENABLED", true),

		// Persistence configuration
		PostgresURL: os.Getenv("POSTGRES_DB_URL"),

		// Upload archival configuration
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          getEnvString("S3_BUCKET", "invoices"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),
	}

	// Validate critical configuration
	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	// Check if Gemini API key is provided
	if config.GeminiAPIKey == "" {
		log.Println("Warning: No Gemini API key provided. Spreadsheets will use rule-based parsing only and image/PDF extraction will fail.")
	}

	// Check if persistence is configured
	if config.PostgresURL == "" {
		log.Println("Warning: No Postgres URL provided. Extraction results will not be persisted.")
	}

	// Check if upload archival is configured
	if config.S3Endpoint == "" {
		log.Println("Warning: No S3 endpoint provided. Uploaded documents will not be archived.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
