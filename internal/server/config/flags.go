package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/weatherdash/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-k string   WeatherAPI.com API key
//	-b string   upstream base URL (e.g., "https://api.weatherapi.com/v1")
//	-t int      upstream request timeout, seconds
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer in seconds and then converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-b", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.WeatherAPIKey, "k", config.WeatherAPIKey, "weather provider API key")
	fs.StringVar(&config.WeatherAPIBaseURL, "b", config.WeatherAPIBaseURL, "weather provider base URL")

	upstreamTimeout := fs.Int("t", int(config.UpstreamTimeout.Seconds()), "upstream request timeout (in seconds)")

	_ = fs.Parse(args)

	config.UpstreamTimeout = time.Duration(*upstreamTimeout) * time.Second
}
