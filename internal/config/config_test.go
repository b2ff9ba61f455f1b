package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/snarg/atc-engine/internal/normalize"
)

func setEnvs(t *testing.T, envs map[string]string) func() {
	t.Helper()
	saved := make(map[string]string)
	for k, v := range envs {
		saved[k] = os.Getenv(k)
		os.Setenv(k, v)
	}
	return func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if cfg.TranscriptDir != "./data/transcripts" {
			t.Errorf("TranscriptDir = %q", cfg.TranscriptDir)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
		if cfg.FilterMinWords != 3 {
			t.Errorf("FilterMinWords = %d, want 3", cfg.FilterMinWords)
		}
		if !cfg.ExpandNumbers || !cfg.ExpandPhonetic || !cfg.SpellingCorrections {
			t.Error("normalizer switches should default on")
		}
		if cfg.OutputCase != "upper" {
			t.Errorf("OutputCase = %q, want upper", cfg.OutputCase)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		cleanup := setEnvs(t, map[string]string{"HTTP_ADDR": ":7070"})
		defer cleanup()

		cfg, err := Load(Overrides{
			EnvFile:       "nonexistent.env",
			HTTPAddr:      ":9090",
			LogLevel:      "debug",
			DatabaseURL:   "postgres://override/db",
			TranscriptDir: "/tmp/transcripts",
			OutputDir:     "/tmp/out",
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":9090" {
			t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.DatabaseURL != "postgres://override/db" {
			t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
		}
		if cfg.TranscriptDir != "/tmp/transcripts" {
			t.Errorf("TranscriptDir = %q", cfg.TranscriptDir)
		}
		if cfg.OutputDir != "/tmp/out" {
			t.Errorf("OutputDir = %q", cfg.OutputDir)
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		cleanup := setEnvs(t, map[string]string{
			"EXPAND_NUMBERS":   "false",
			"FILTER_MAX_WORDS": "50",
			"OUTPUT_CASE":      "lower",
		})
		defer cleanup()

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.ExpandNumbers {
			t.Error("ExpandNumbers = true, want false")
		}
		if cfg.FilterMaxWords != 50 {
			t.Errorf("FilterMaxWords = %d, want 50", cfg.FilterMaxWords)
		}
		if cfg.OutputCase != "lower" {
			t.Errorf("OutputCase = %q, want lower", cfg.OutputCase)
		}
	})
}

func TestNormalizeConfig(t *testing.T) {
	cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	nc := cfg.NormalizeConfig()
	if !reflect.DeepEqual(nc, normalize.DefaultConfig()) {
		t.Errorf("NormalizeConfig() = %+v, want the normalizer defaults", nc)
	}
}

func TestFilterOptions(t *testing.T) {
	cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fo := cfg.FilterOptions()
	if fo.MinWords != 3 || fo.MaxWords != 0 || !fo.ExcludeQualityIssues {
		t.Errorf("FilterOptions() = %+v", fo)
	}
	if len(fo.ExclusionTags) == 0 {
		t.Error("FilterOptions() missing default exclusion tags")
	}
}
