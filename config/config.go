package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabasePath       = "gallery.db"
	defaultPort               = "8080"
	defaultJWTExpirationHours = 24

	defaultRefreshQueueSize  = 200
	defaultNumRefreshWorkers = 2
)

type Config struct {
	// database path
	DatabasePath string

	// http server settings
	Port           string
	AllowedOrigins []string

	// auth settings
	JWTSecret          string
	JWTExpirationHours int

	// background role refresh settings
	RefreshQueueSize  int
	NumRefreshWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	origins := strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := Config{
		DatabasePath:       getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		Port:               getEnvOrDefault("PORT", defaultPort),
		AllowedOrigins:     origins,
		JWTSecret:          jwtSecret,
		JWTExpirationHours: getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		RefreshQueueSize:   getEnvIntOrDefault("ROLE_REFRESH_QUEUE_SIZE", defaultRefreshQueueSize),
		NumRefreshWorkers:  getEnvIntOrDefault("NUM_ROLE_REFRESH_WORKERS", defaultNumRefreshWorkers),
	}

	return cfg, nil
}
