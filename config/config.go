package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level settings read from the environment. A .env file
// in the working directory is merged in when present.
type Config struct {
	ListenAddr string
	TMDBAPIKey string
	Language   string

	// Inbound per-IP rate limit.
	RatePerSec float64
	RateBurst  int
}

func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	return Config{
		ListenAddr: envString("LISTEN_ADDR", ":8080"),
		TMDBAPIKey: os.Getenv("TMDB_API_KEY"),
		Language:   envString("TMDB_LANGUAGE", "en-US"),
		RatePerSec: envFloat("RATE_LIMIT_PER_SEC", 10),
		RateBurst:  envInt("RATE_LIMIT_BURST", 20),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, def)
		return def
	}
	return parsed
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %g", key, v, def)
		return def
	}
	return parsed
}
