package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/pairdeck/pairdeck/internal/domain"
	"github.com/pairdeck/pairdeck/internal/schedule"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. PAIRDECK_DB or PAIRDECK_SCHEDULER__MAX_INTERVAL.
const envPrefix = "PAIRDECK_"

// Session holds the per-session batch sizes for the review loop.
type Session struct {
	Learn  int `koanf:"learn" validate:"gte=1"`  // new pairs introduced per session
	Assess int `koanf:"assess" validate:"gte=1"` // total reviews per session
}

// Config is the full application configuration, merged from the config
// file, environment variables, and command-line flags, in that order.
type Config struct {
	DB        string          `koanf:"db" validate:"required"`
	CacheDir  string          `koanf:"cache_dir" validate:"required"`
	Sources   []string        `koanf:"sources"`
	Session   Session         `koanf:"session"`
	Scheduler schedule.Params `koanf:"scheduler"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:        "pairdeck.db",
		CacheDir:  "repos",
		Session:   Session{Learn: 10, Assess: 10},
		Scheduler: *schedule.DefaultParams(),
	}
}

// Load builds the configuration. The YAML file at path is optional
// unless explicitly requested; environment variables with the PAIRDECK_
// prefix override the file, and set flags override everything.
func Load(path string, explicit bool, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	// Double underscore separates nesting levels so key names may keep
	// single underscores: PAIRDECK_SCHEDULER__MAX_INTERVAL -> scheduler.max_interval
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
// Violations are reported as domain.ErrValidation so callers can treat
// them like any other malformed input.
func Validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	return nil
}
