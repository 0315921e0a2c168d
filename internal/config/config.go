package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/tropical-nights/internal/weather"
	"github.com/i474232898/tropical-nights/internal/weather/providers"
)

var validate = validator.New()

type AppConfig struct {
	// DataDir holds one <year>.json dataset per year.
	DataDir string `yaml:"data_dir" validate:"required"`

	// StartYear is the first year synced and summarized.
	StartYear int `yaml:"start_year" validate:"gte=1940,lte=9999"`

	Location weather.Location `yaml:"location"`

	ArchiveURL      string        `yaml:"archive_url" validate:"required,url"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" validate:"gt=0s"`
	FetchMaxRetries int           `yaml:"fetch_max_retries" validate:"gte=0,lte=10"`

	// StaleAfter is the age at which a cached current-year dataset is re-fetched.
	StaleAfter time.Duration `yaml:"stale_after" validate:"gt=0s"`

	// Serve keeps the process running with the HTTP API and the daily scheduler.
	Serve  bool   `yaml:"serve"`
	Port   string `yaml:"port" validate:"required,numeric"`
	SyncAt string `yaml:"sync_at" validate:"required,datetime=15:04"`
}

// Default returns the compiled-in configuration: Berlin, from 2021, cached under ./data.
func Default() *AppConfig {
	return &AppConfig{
		DataDir:   "data",
		StartYear: 2021,
		Location: weather.Location{
			Name:      "Berlin",
			Latitude:  52.52,
			Longitude: 13.41,
			Timezone:  "Europe/Berlin",
		},
		ArchiveURL:      providers.DefaultArchiveURL,
		HTTPTimeout:     30 * time.Second,
		FetchMaxRetries: 0,
		StaleAfter:      weather.DefaultStaleAfter,
		Port:            "8080",
		SyncAt:          "06:00",
	}
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and the
// environment, on top of Default.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the timezone is known.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
		return fmt.Errorf("invalid LOCATION_TIMEZONE: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	var err error

	cfg.DataDir = getenvDefault("DATA_DIR", cfg.DataDir)
	cfg.StartYear = getenvInt("START_YEAR", cfg.StartYear)

	cfg.Location.Name = getenvDefault("LOCATION_NAME", cfg.Location.Name)
	cfg.Location.Timezone = getenvDefault("LOCATION_TIMEZONE", cfg.Location.Timezone)
	if cfg.Location.Latitude, err = getenvFloat("LOCATION_LATITUDE", cfg.Location.Latitude); err != nil {
		return err
	}
	if cfg.Location.Longitude, err = getenvFloat("LOCATION_LONGITUDE", cfg.Location.Longitude); err != nil {
		return err
	}

	cfg.ArchiveURL = getenvDefault("ARCHIVE_API_URL", cfg.ArchiveURL)
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", cfg.FetchMaxRetries)
	if cfg.StaleAfter, err = getenvDuration("CACHE_STALE_AFTER", cfg.StaleAfter); err != nil {
		return err
	}

	if cfg.Serve, err = getenvBool("SERVE", cfg.Serve); err != nil {
		return err
	}
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.SyncAt = getenvDefault("SYNC_AT", cfg.SyncAt)

	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
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

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
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
