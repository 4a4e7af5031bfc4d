package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecretKey is the placeholder signing key shipped with the default
// configuration. Deployments must replace it before going to production.
const DefaultSecretKey = "change_me_in_production"

// Config holds everything the server needs to boot. Values come from an
// optional jornada.yaml file overridden by JORNADA_* environment variables.
type Config struct {
	DatabasePath  string `mapstructure:"database_path"`
	ListenAddr    string `mapstructure:"listen_addr"`
	Timezone      string `mapstructure:"timezone"`
	SecretKey     string `mapstructure:"secret_key"`
	SecureCookies bool   `mapstructure:"secure_cookies"`

	Reminder ReminderConfig `mapstructure:"reminder"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// ReminderConfig configures the end-of-day open-work reminder.
type ReminderConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Time           string `mapstructure:"time"`
	MinOpenMinutes int    `mapstructure:"min_open_minutes"`
}

// TelegramConfig configures the Telegram channel reminders are delivered to.
// Reminders are silently disabled when the token is empty.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Load reads the configuration file (if any), applies environment overrides
// and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", filepath.Join("data", "jornada.db"))
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("secret_key", DefaultSecretKey)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.time", "18:30")
	v.SetDefault("reminder.min_open_minutes", 30)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetConfigName("jornada")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/jornada")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("JORNADA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("database_path must not be empty")
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("listen_addr must not be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if _, _, err := ParseClock(c.Reminder.Time); err != nil {
		return err
	}
	if c.Reminder.MinOpenMinutes < 0 {
		return errors.New("reminder.min_open_minutes must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// Location resolves the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

// UsingDefaultSecret reports whether the placeholder signing key is still in
// use so callers can warn about it.
func (c *Config) UsingDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// ParseClock parses a wall-clock value in 24-hour HH:MM form.
func ParseClock(value string) (hour int, minute int, err error) {
	parsed, parseErr := time.Parse("15:04", strings.TrimSpace(value))
	if parseErr != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q, expected HH:MM", value)
	}
	return parsed.Hour(), parsed.Minute(), nil
}
