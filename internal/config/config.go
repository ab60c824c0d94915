package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	// OpenWeatherAPIKey is the only source of the upstream credential.
	OpenWeatherAPIKey  string `yaml:"openweather_api_key"`
	OpenWeatherBaseURL string `yaml:"openweather_base_url"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
	BreakerThreshold uint32        `yaml:"breaker_max_failures"`

	Port            string `yaml:"port"`
	SuggestionLimit int    `yaml:"suggestion_limit"`

	// Client side.
	APIURL          string        `yaml:"weather_api_url"`
	PageURL         string        `yaml:"page_url"`
	SuggestDebounce time.Duration `yaml:"suggest_debounce"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Optional fixed device position for terminal clients.
	LocationLat *float64 `yaml:"location_lat"`
	LocationLon *float64 `yaml:"location_lon"`

	LogLevel string `yaml:"log_level"`

	dotenvErr error
}

// DotEnvError reports why no .env file was applied, or nil when one was.
// Load does not fail on it; callers log it once a logger exists.
func (c *AppConfig) DotEnvError() error {
	return c.dotenvErr
}

func defaults() *AppConfig {
	return &AppConfig{
		OpenWeatherBaseURL: "https://api.openweathermap.org",
		HTTPTimeout:        10 * time.Second,
		BreakerThreshold:   5,
		Port:               "8080",
		SuggestionLimit:    5,
		SuggestDebounce:    300 * time.Millisecond,
		RefreshInterval:    15 * time.Minute,
		LogLevel:           "info",
	}
}

// Load reads configuration from .env, an optional YAML file named by
// CONFIG_FILE, and the environment, in that order of increasing precedence.
func Load() (*AppConfig, error) {
	cfg := defaults()
	cfg.dotenvErr = godotenv.Load()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:" + cfg.Port + "/api"
	}
	if cfg.PageURL == "" {
		cfg.PageURL = "http://localhost:" + cfg.Port + "/"
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) loadEnv() error {
	c.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", c.OpenWeatherAPIKey)
	c.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", c.OpenWeatherBaseURL)
	c.Port = getenvDefault("PORT", c.Port)
	c.APIURL = getenvDefault("WEATHER_API_URL", c.APIURL)
	c.PageURL = getenvDefault("PAGE_URL", c.PageURL)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)

	var err error
	if c.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.SuggestDebounce, err = getenvDuration("SUGGEST_DEBOUNCE", c.SuggestDebounce); err != nil {
		return err
	}
	if c.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", c.RefreshInterval); err != nil {
		return err
	}
	if c.SuggestionLimit, err = getenvInt("SUGGESTION_LIMIT", c.SuggestionLimit); err != nil {
		return err
	}

	threshold, err := getenvInt("BREAKER_MAX_FAILURES", int(c.BreakerThreshold))
	if err != nil {
		return err
	}
	if threshold < 1 {
		return fmt.Errorf("invalid BREAKER_MAX_FAILURES: must be at least 1")
	}
	c.BreakerThreshold = uint32(threshold)

	if c.LocationLat, err = getenvFloat("LOCATION_LAT", c.LocationLat); err != nil {
		return err
	}
	if c.LocationLon, err = getenvFloat("LOCATION_LON", c.LocationLon); err != nil {
		return err
	}
	if (c.LocationLat == nil) != (c.LocationLon == nil) {
		return fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}

	return nil
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

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def *float64) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
