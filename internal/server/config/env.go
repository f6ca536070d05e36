package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from environment variables. A .env file in
// the working directory is loaded first when present; already-set variables
// win over the file.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	WEATHER_API_KEY          WeatherAPI.com API key
//	WEATHER_API_BASE_URL     upstream base URL
//	UPSTREAM_TIMEOUT_SECONDS upstream request timeout, seconds
func parseEnv(config *Config) {
	// Missing .env is not an error, the environment alone is enough.
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("WEATHER_API_KEY"); ok {
		config.WeatherAPIKey = v
	}
	if v, ok := os.LookupEnv("WEATHER_API_BASE_URL"); ok {
		config.WeatherAPIBaseURL = v
	}
	if v, ok := os.LookupEnv("UPSTREAM_TIMEOUT_SECONDS"); ok {
		if seconds, err := strconv.Atoi(v); err == nil {
			config.UpstreamTimeout = time.Duration(seconds) * time.Second
		}
	}
}
