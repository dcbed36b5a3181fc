// Package config loads ls-lunar settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/feature"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the observing site and runtime settings.
type Config struct {
	Latitude    string        `yaml:"latitude" validate:"required,dms"`  // "d:m:s", North positive
	Longitude   string        `yaml:"longitude" validate:"required,dms"` // "d:m:s", East positive
	Timezone    string        `yaml:"timezone" validate:"required,timezone"`
	Club        string        `yaml:"club" validate:"oneof=Lunar LunarII"`
	Limit       int           `yaml:"limit" validate:"gte=0"`
	LogLevel    string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Refresh     time.Duration `yaml:"refresh" validate:"gte=1s"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// Default returns the built-in settings: Knoxville, TN and the Lunar club.
func Default() Config {
	return Config{
		Latitude:  "35:58:10",
		Longitude: "-84:19:0",
		Timezone:  "America/New_York",
		Club:      feature.ClubLunar,
		Limit:     0,
		LogLevel:  "info",
		Refresh:   time.Minute,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dms", func(fl validator.FieldLevel) bool {
		_, err := codec.ParseDMS(fl.Field().String())
		return err == nil
	})
	return v
}

// Load builds the configuration. A .env file in the working directory is
// loaded first; then LUNAR_CONFIG names an optional YAML file; LUNAR_*
// variables override both. The result is validated.
func Load() (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("LUNAR_CONFIG"); path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadFile overlays the settings present in a YAML file.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Latitude, "LUNAR_LATITUDE")
	setString(&c.Longitude, "LUNAR_LONGITUDE")
	setString(&c.Timezone, "LUNAR_TIMEZONE")
	setString(&c.Club, "LUNAR_CLUB")
	setString(&c.LogLevel, "LUNAR_LOG_LEVEL")
	setString(&c.MetricsAddr, "LUNAR_METRICS_ADDR")

	if v := os.Getenv("LUNAR_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LUNAR_LIMIT %q: %v", ErrInvalid, v, err)
		}
		c.Limit = n
	}
	if v := os.Getenv("LUNAR_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: LUNAR_REFRESH %q: %v", ErrInvalid, v, err)
		}
		c.Refresh = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s fails %q (got %v)", ErrInvalid, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Site parses the latitude and longitude.
func (c *Config) Site() (lat, lon codec.DMS, err error) {
	if lat, err = codec.ParseDMS(c.Latitude); err != nil {
		return lat, lon, fmt.Errorf("latitude: %w", err)
	}
	if lon, err = codec.ParseDMS(c.Longitude); err != nil {
		return lat, lon, fmt.Errorf("longitude: %w", err)
	}
	return lat, lon, nil
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
