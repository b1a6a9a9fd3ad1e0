package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ServiceModeLocal  = "local"
	ServiceModeRemote = "remote"
)

const (
	defaultPort                 = "8080"
	defaultComputeQueueSize     = 64
	defaultNumComputeWorkers    = 4
	defaultServiceTimeoutSecs   = 15
	defaultServiceRatePerSecond = 10
	defaultJWTExpirationHours   = 24
	defaultLineBaseWidth        = 20
	defaultLineGenerationStep   = 10
	defaultLineMinWidth         = 1
)

type Config struct {
	Port string

	// database path (preferences + local service tables)
	DatabasePath string

	// family service backend
	ServiceMode          string
	ServiceURL           string
	ServiceTimeout       time.Duration
	ServiceRatePerSecond int

	// session tokens
	JWTSecret          string
	JWTExpirationHours int

	// compute pool settings
	ComputeQueueSize  int
	NumComputeWorkers int

	CORSAllowedOrigins []string
	LogMode            string

	// guards the local-mode admin endpoints; empty disables them
	AdminKey string

	// family line widths
	LineBaseWidth      float64
	LineGenerationStep float64
	LineMinWidth       float64
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

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	mode := strings.ToLower(getEnvOrDefault("FAMILY_SERVICE_MODE", ServiceModeLocal))
	if mode != ServiceModeLocal && mode != ServiceModeRemote {
		return Config{}, fmt.Errorf("invalid FAMILY_SERVICE_MODE '%s': want %s or %s", mode, ServiceModeLocal, ServiceModeRemote)
	}

	serviceURL := strings.TrimRight(os.Getenv("FAMILY_SERVICE_URL"), "/")
	if mode == ServiceModeRemote && serviceURL == "" {
		return Config{}, fmt.Errorf("FAMILY_SERVICE_URL is required when FAMILY_SERVICE_MODE is %s", ServiceModeRemote)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("Warning: JWT_SECRET not set, using an insecure development secret")
		secret = "familymap-dev-secret"
	}

	cfg := Config{
		Port:                 getEnvOrDefault("PORT", defaultPort),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", "familymap.db"),
		ServiceMode:          mode,
		ServiceURL:           serviceURL,
		ServiceTimeout:       time.Duration(getEnvIntOrDefault("SERVICE_TIMEOUT_SECONDS", defaultServiceTimeoutSecs)) * time.Second,
		ServiceRatePerSecond: getEnvIntOrDefault("SERVICE_RATE_PER_SECOND", defaultServiceRatePerSecond),
		JWTSecret:            secret,
		JWTExpirationHours:   getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		ComputeQueueSize:     getEnvIntOrDefault("COMPUTE_QUEUE_SIZE", defaultComputeQueueSize),
		NumComputeWorkers:    getEnvIntOrDefault("NUM_COMPUTE_WORKERS", defaultNumComputeWorkers),
		CORSAllowedOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogMode:              getEnvOrDefault("LOG_MODE", "dev"),
		AdminKey:             os.Getenv("ADMIN_KEY"),
		LineBaseWidth:        getEnvFloatOrDefault("LINE_BASE_WIDTH", defaultLineBaseWidth),
		LineGenerationStep:   getEnvFloatOrDefault("LINE_GENERATION_STEP", defaultLineGenerationStep),
		LineMinWidth:         getEnvFloatOrDefault("LINE_MIN_WIDTH", defaultLineMinWidth),
	}

	return cfg, nil
}
