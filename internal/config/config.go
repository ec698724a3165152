package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	PostgresURI         string
	RedisURI            string
	MongoURI            string
	MLAPIBaseURL        string        // Base URL of the remote disease prediction service
	MLAPITimeout        time.Duration // Hard deadline for one prediction call
	Port                string
	FrontendURL         string
	AllowedOrigins      []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	Environment         string // ENV: production, development, etc.
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS: allow multiple origins so the production frontend works alongside localhost
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/coffeeguard?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/coffeeguard")),
		MLAPIBaseURL:        strings.TrimRight(getEnv("ML_API_URL", "http://localhost:5000"), "/"),
		MLAPITimeout:        getEnvSeconds("ML_API_TIMEOUT_SECONDS", 30),
		Port:                getEnv("PORT", "8080"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:      allowedOrigins,
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Environment:         env,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
