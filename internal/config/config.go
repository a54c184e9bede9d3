// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jeepster74/MPone/internal/ratelimit"
)

// Config holds all settings for the pass runner and the dashboard server,
// populated from environment variables.
type Config struct {
	// Data files.
	StorePath    string
	ShapesPath   string
	WishlistPath string

	// Dashboard server.
	HTTPAddr        string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration
	AuthUsers       map[string]string // username -> bcrypt hash
	CORSOrigins     []string

	// Logging.
	LogLevel  string
	LogFormat string

	// Pass execution.
	ScoreStrategy   string
	CheckpointEvery int
	BatchSize       int
	SnapRadiusM     float64
	RateLimit       ratelimit.Config

	// Providers.
	IncomeTablePath   string
	NutsGeoJSONPath   string
	LookupDir         string
	ORSAPIKey         string
	IsochroneRangeMin int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration("SESSION_TTL", 6*time.Hour)
	if err != nil {
		return nil, err
	}
	providerDelay, err := parseDuration("PROVIDER_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	checkpointEvery, err := parsePositiveInt("CHECKPOINT_EVERY", 10)
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	isochroneRange, err := parsePositiveInt("ISOCHRONE_RANGE_MIN", 30)
	if err != nil {
		return nil, err
	}

	snapRadius, err := parsePositiveFloat("SNAP_RADIUS_M", 200)
	if err != nil {
		return nil, err
	}

	authUsers, err := parseAuthUsers(os.Getenv("AUTH_USERS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StorePath:    envOrDefault("STORE_PATH", "data/karting_enriched.csv"),
		ShapesPath:   envOrDefault("SHAPES_PATH", "data/karting_shapes.geojson"),
		WishlistPath: envOrDefault("WISHLIST_PATH", "data/wishlist.json"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
		SessionTTL:      sessionTTL,
		AuthUsers:       authUsers,
		CORSOrigins:     splitNonEmpty(os.Getenv("CORS_ORIGINS"), ","),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		ScoreStrategy:   envOrDefault("SCORE_STRATEGY", "trust"),
		CheckpointEvery: checkpointEvery,
		BatchSize:       batchSize,
		SnapRadiusM:     snapRadius,
		RateLimit: ratelimit.Config{
			Strategy: ratelimit.Strategy(envOrDefault("RATE_STRATEGY", string(ratelimit.StrategyFixedDelay))),
			Delay:    providerDelay,
		},

		IncomeTablePath:   os.Getenv("INCOME_TABLE_PATH"),
		NutsGeoJSONPath:   os.Getenv("NUTS_GEOJSON_PATH"),
		LookupDir:         os.Getenv("LOOKUP_DIR"),
		ORSAPIKey:         os.Getenv("ORS_API_KEY"),
		IsochroneRangeMin: isochroneRange,
	}

	if cfg.StorePath == "" {
		return nil, errors.New("STORE_PATH is required")
	}
	switch cfg.ScoreStrategy {
	case "completeness", "trust":
	default:
		return nil, fmt.Errorf("invalid SCORE_STRATEGY %q", cfg.ScoreStrategy)
	}
	switch cfg.RateLimit.Strategy {
	case ratelimit.StrategyFixedDelay, ratelimit.StrategyTokenBucket:
	default:
		return nil, fmt.Errorf("invalid RATE_STRATEGY %q", cfg.RateLimit.Strategy)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return f, nil
}

// parseAuthUsers parses "alice:$2a$...;bob:$2a$..." into a user-to-hash map.
func parseAuthUsers(raw string) (map[string]string, error) {
	users := make(map[string]string)
	for _, pair := range splitNonEmpty(raw, ";") {
		name, hash, ok := strings.Cut(pair, ":")
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("invalid AUTH_USERS entry %q", pair)
		}
		users[name] = hash
	}
	return users, nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
