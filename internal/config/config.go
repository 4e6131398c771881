// Package config loads the application configuration from a YAML file with
// environment overrides for secrets and deployment settings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/huyng1801/restobot/internal/seating"
)

// Config represents the application configuration
type Config struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`

	Database struct {
		Driver string `yaml:"driver"` // sqlite3 or postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Seating struct {
		ServiceDurationMinutes      int `yaml:"service_duration_minutes"`
		ReservationLookaheadMinutes int `yaml:"reservation_lookahead_minutes"`
		PendingHoldGraceMinutes     int `yaml:"pending_hold_grace_minutes"`
		EarlyThresholdMinutes       int `yaml:"early_threshold_minutes"`
		OnTimeWindowMinutes         int `yaml:"on_time_window_minutes"`
		LateThresholdMinutes        int `yaml:"late_threshold_minutes"`
		NoShowThresholdMinutes      int `yaml:"no_show_threshold_minutes"`
	} `yaml:"seating"`

	Sweep struct {
		ResyncIntervalMinutes int `yaml:"resync_interval_minutes"`  // 0 disables
		NoShowIntervalMinutes int `yaml:"no_show_interval_minutes"` // 0 disables
	} `yaml:"sweep"`

	Bot struct {
		Enabled   bool   `yaml:"enabled"`
		Model     string `yaml:"model"`
		OpenAIKey string `yaml:"openai_key"`
	} `yaml:"bot"`
}

// Load reads the configuration file and applies environment overrides. A
// missing file leaves the defaults in place; a .env file is loaded when
// present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv("RESTOBOT_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("RESTOBOT_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Bot.OpenAIKey = v
	}

	if cfg.Database.Driver != "sqlite3" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	return cfg, nil
}

// SeatingPolicy converts the configured threshold minutes to a policy
func (c *Config) SeatingPolicy() seating.Policy {
	return seating.Policy{
		ServiceDuration:      time.Duration(c.Seating.ServiceDurationMinutes) * time.Minute,
		ReservationLookahead: time.Duration(c.Seating.ReservationLookaheadMinutes) * time.Minute,
		PendingHoldGrace:     time.Duration(c.Seating.PendingHoldGraceMinutes) * time.Minute,
		EarlyThreshold:       time.Duration(c.Seating.EarlyThresholdMinutes) * time.Minute,
		OnTimeWindow:         time.Duration(c.Seating.OnTimeWindowMinutes) * time.Minute,
		LateThreshold:        time.Duration(c.Seating.LateThresholdMinutes) * time.Minute,
		NoShowThreshold:      time.Duration(c.Seating.NoShowThresholdMinutes) * time.Minute,
	}
}

// defaults mirrors seating.DefaultPolicy with local sqlite storage
func defaults() *Config {
	cfg := &Config{}
	cfg.Port = 8080
	cfg.MetricsPort = 9090
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = "restobot.db"
	cfg.Seating.ServiceDurationMinutes = 120
	cfg.Seating.ReservationLookaheadMinutes = 30
	cfg.Seating.PendingHoldGraceMinutes = 15
	cfg.Seating.EarlyThresholdMinutes = 15
	cfg.Seating.OnTimeWindowMinutes = 15
	cfg.Seating.LateThresholdMinutes = 30
	cfg.Seating.NoShowThresholdMinutes = 60
	cfg.Sweep.ResyncIntervalMinutes = 15
	cfg.Sweep.NoShowIntervalMinutes = 10
	cfg.Bot.Model = "gpt-4o-mini"
	return cfg
}
