package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pairdeck/pairdeck/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", false, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB != "pairdeck.db" {
		t.Errorf("Expected default db path, got %q", cfg.DB)
	}
	if cfg.Session.Learn != 10 || cfg.Session.Assess != 10 {
		t.Errorf("Expected default session sizes 10/10, got %d/%d", cfg.Session.Learn, cfg.Session.Assess)
	}
	if cfg.Scheduler.MasteryThreshold != 10 {
		t.Errorf("Expected default mastery threshold 10, got %d", cfg.Scheduler.MasteryThreshold)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Run("default path may be absent", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false, nil); err != nil {
			t.Errorf("Expected missing default config to be ignored, got %v", err)
		}
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true, nil); err == nil {
			t.Error("Expected an error for an explicitly requested missing file")
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairdeck.yaml")
	content := `
db: /tmp/other.db
sources:
  - /srv/decks
  - https://example.com/decks.git
session:
  assess: 25
scheduler:
  max_interval: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path, true, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB != "/tmp/other.db" {
		t.Errorf("Expected db from file, got %q", cfg.DB)
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("Expected 2 sources, got %v", cfg.Sources)
	}
	if cfg.Session.Assess != 25 {
		t.Errorf("Expected assess 25 from file, got %d", cfg.Session.Assess)
	}
	if cfg.Session.Learn != 10 {
		t.Errorf("Expected learn to keep its default, got %d", cfg.Session.Learn)
	}
	if cfg.Scheduler.MaxInterval != 30 {
		t.Errorf("Expected max interval 30 from file, got %d", cfg.Scheduler.MaxInterval)
	}
	if cfg.Scheduler.GrowthFactor != 2 {
		t.Errorf("Expected growth factor to keep its default, got %d", cfg.Scheduler.GrowthFactor)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PAIRDECK_DB", "/tmp/env.db")
	t.Setenv("PAIRDECK_SCHEDULER__MASTERY_THRESHOLD", "5")

	cfg, err := Load("", false, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB != "/tmp/env.db" {
		t.Errorf("Expected db from environment, got %q", cfg.DB)
	}
	if cfg.Scheduler.MasteryThreshold != 5 {
		t.Errorf("Expected mastery threshold 5 from environment, got %d", cfg.Scheduler.MasteryThreshold)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero learning threshold", func(c *Config) { c.Scheduler.LearningThreshold = 0 }},
		{"growth factor below two", func(c *Config) { c.Scheduler.GrowthFactor = 1 }},
		{"negative lapse penalty", func(c *Config) { c.Scheduler.LapsePenalty = -1 }},
		{"zero session size", func(c *Config) { c.Session.Assess = 0 }},
		{"empty db path", func(c *Config) { c.DB = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := Validate(cfg); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		if err := Validate(Default()); err != nil {
			t.Errorf("Expected defaults to validate, got %v", err)
		}
	})
}
