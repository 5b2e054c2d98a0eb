package app

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL    string        // HR backend base URL (versioned)
	Port          int           // portal HTTP port (default: 3000)
	SessionFile   string        // path to the persisted session file
	MasterKeyPath string        // optional: when set, the session file is sealed at rest
	Env           string        // Environment (dev, staging, prod) (default: dev)
	LogLevel      string        // Log level (debug, info, warn, error) (default: info)
	LogFormat     string        // Log format (json, text) (default: json)
	ShutdownGrace time.Duration // Graceful shutdown timeout (default: 10s)
	PollInterval  time.Duration // Notification poll interval (default: 30s)
}

func LoadConfig() Config {
	return Config{
		APIBaseURL:    getEnvOrDefault("PORTAL_API_BASE_URL", "http://localhost:5000/api/v1"),
		Port:          getEnvIntOrDefault("PORT", 3000),
		SessionFile:   getEnvOrDefault("PORTAL_SESSION_FILE", defaultSessionFile()),
		MasterKeyPath: os.Getenv("PORTAL_MASTER_KEY_PATH"),
		Env:           getEnvOrDefault("ENV", "dev"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGrace: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		PollInterval:  getEnvDurationOrDefault("PORTAL_POLL_INTERVAL", 30*time.Second),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".staffdeck", "session.json")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
