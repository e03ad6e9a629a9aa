package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/triage-assistant/internal/location"
	"github.com/i474232898/triage-assistant/internal/store"
)

type AppConfig struct {
	Port string

	// Upstream endpoints. The defaults are the addresses the mobile client
	// shipped with.
	EnvironmentAPIURL string
	ChatAPIURL        string

	// HTTPTimeout bounds outbound calls; zero means no timeout.
	HTTPTimeout time.Duration

	// BreakerFailures enables the upstream circuit breaker: after that many
	// failures in a row calls fail fast for BreakerOpenTimeout. Zero keeps
	// it closed.
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration

	Store    store.Options
	StoreKey string

	Location LocationConfig

	// RefreshInterval enables periodic dashboard refresh when positive.
	RefreshInterval time.Duration

	ChatRateLimit       float64 // requests per second per client
	ChatRateBurst       int
	ChatSessionCapacity int

	LogLevel  logrus.Level
	LogFormat string // json or text
}

// LocationConfig selects the stand-in location provider. When a city and a
// geocoder key are set the address is geocoded; otherwise the fixed
// coordinates are used.
type LocationConfig struct {
	Latitude   float64
	Longitude  float64
	Permission location.Permission

	Address        location.Address
	GeocoderAPIKey string
}

// Geocoded reports whether the address should be geocoded.
func (l LocationConfig) Geocoded() bool {
	return l.Address.City != "" && l.GeocoderAPIKey != ""
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		EnvironmentAPIURL: getenvDefault("ENVIRONMENT_API_URL", "http://35.93.197.32:8000"),
		ChatAPIURL:        getenvDefault("CHAT_API_URL", "http://35.93.197.32:5000"),
		StoreKey:          getenvDefault("STORE_KEY", "@environmental_data"),
		LogFormat:         getenvDefault("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	failures, err := getenvInt("BREAKER_FAILURES", 0)
	if err != nil {
		return nil, err
	}
	if failures < 0 {
		return nil, fmt.Errorf("invalid BREAKER_FAILURES: must not be negative")
	}
	cfg.BreakerFailures = uint32(failures)

	redisDB, err := getenvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.Store = store.Options{
		Backend:       getenvDefault("STORE_BACKEND", store.BackendMemory),
		Dir:           getenvDefault("STORE_DIR", "./data"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}
	switch cfg.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendRedis:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", cfg.Store.Backend)
	}

	if cfg.Location, err = loadLocation(); err != nil {
		return nil, err
	}

	if cfg.ChatRateLimit, err = getenvFloat("CHAT_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.ChatRateBurst, err = getenvInt("CHAT_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.ChatSessionCapacity, err = getenvInt("CHAT_SESSION_CAPACITY", 256); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = logrus.ParseLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func loadLocation() (LocationConfig, error) {
	var (
		lc  LocationConfig
		err error
	)

	if lc.Latitude, err = getenvFloat("LOCATION_LATITUDE", 47.6062); err != nil {
		return lc, err
	}
	if lc.Longitude, err = getenvFloat("LOCATION_LONGITUDE", -122.3321); err != nil {
		return lc, err
	}
	if lc.Latitude < -90 || lc.Latitude > 90 || lc.Longitude < -180 || lc.Longitude > 180 {
		return lc, fmt.Errorf("location %f,%f is out of range", lc.Latitude, lc.Longitude)
	}

	switch strings.ToLower(getenvDefault("LOCATION_PERMISSION", "granted")) {
	case "granted":
		lc.Permission = location.Granted
	case "denied":
		lc.Permission = location.Denied
	default:
		return lc, fmt.Errorf("invalid LOCATION_PERMISSION %q", os.Getenv("LOCATION_PERMISSION"))
	}

	lc.Address = location.Address{
		Street:  os.Getenv("LOCATION_STREET"),
		City:    os.Getenv("LOCATION_CITY"),
		Country: os.Getenv("LOCATION_COUNTRY"),
	}
	lc.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	return lc, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
