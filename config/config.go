// Package config loads the server configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. cmd/server flags are applied on top by the caller.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/amortization-engine/amortization"
)

// Config defines the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	CORS     CORSConfig     `yaml:"cors"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Path is the SQLite file; ":memory:" keeps everything in process.
	Path string `yaml:"path"`
	// Retention deletes saved schedules older than this; 0 keeps them.
	Retention     time.Duration `yaml:"retention"`
	PruneInterval time.Duration `yaml:"prune_interval"`
}

type CacheConfig struct {
	// RedisAddr selects the Redis cache; empty means in-memory.
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultsConfig applies to API requests that omit the field.
type DefaultsConfig struct {
	Frequency    amortization.Frequency    `yaml:"frequency"`
	InterestMode amortization.InterestMode `yaml:"interest_mode"`
	// MaxPeriods bounds request size; 0 disables the check.
	MaxPeriods int `yaml:"max_periods"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{Path: "amortize.db", PruneInterval: time.Hour},
		Cache:    CacheConfig{TTL: 10 * time.Minute},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Defaults: DefaultsConfig{
			Frequency:    amortization.Monthly,
			InterestMode: amortization.InterestClosedForm,
			MaxPeriods:   1200,
		},
	}
}

// Load reads path (optional) on top of the defaults, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("config: server.port out of range")
	}
	if c.Database.Path == "" {
		return errors.New("config: database.path required")
	}
	if !c.Defaults.Frequency.Valid() {
		return errors.New("config: defaults.frequency unknown")
	}
	if !c.Defaults.InterestMode.Valid() {
		return errors.New("config: defaults.interest_mode unknown")
	}
	if c.Database.Retention < 0 {
		return errors.New("config: database.retention must not be negative")
	}
	if c.Database.Retention > 0 && c.Database.PruneInterval <= 0 {
		return errors.New("config: database.prune_interval must be positive")
	}
	if c.Defaults.MaxPeriods < 0 {
		return errors.New("config: defaults.max_periods must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("AMORTIZE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("config: AMORTIZE_PORT must be an integer")
		}
		cfg.Server.Port = port
	}
	cfg.Database.Path = getenvDefault("AMORTIZE_DB", cfg.Database.Path)
	cfg.Cache.RedisAddr = getenvDefault("AMORTIZE_REDIS_ADDR", cfg.Cache.RedisAddr)
	if v := os.Getenv("AMORTIZE_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("config: AMORTIZE_CACHE_TTL must be a duration")
		}
		cfg.Cache.TTL = ttl
	}
	if origins := splitCSV(os.Getenv("AMORTIZE_CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORS.AllowedOrigins = origins
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
