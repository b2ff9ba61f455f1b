package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/snarg/atc-engine/internal/filter"
	"github.com/snarg/atc-engine/internal/normalize"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL"` // optional; empty disables persistence

	TranscriptDir string `env:"TRANSCRIPT_DIR" envDefault:"./data/transcripts"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"./data/preprocessed"`
	Backfill      bool   `env:"BACKFILL" envDefault:"true"`

	Workers   int `env:"WORKERS" envDefault:"4"`
	QueueSize int `env:"QUEUE_SIZE" envDefault:"64"`

	// Normalizer switches.
	Uppercase           bool   `env:"UPPERCASE" envDefault:"true"`
	StripDiacritics     bool   `env:"STRIP_DIACRITICS" envDefault:"true"`
	RemoveTags          bool   `env:"REMOVE_TAGS" envDefault:"true"`
	ExpandPhonetic      bool   `env:"EXPAND_PHONETIC_LETTERS" envDefault:"true"`
	ExpandNumbers       bool   `env:"EXPAND_NUMBERS" envDefault:"true"`
	ExpandContractions  bool   `env:"EXPAND_CONTRACTIONS" envDefault:"true"`
	SpellingCorrections bool   `env:"SPELLING_CORRECTIONS" envDefault:"true"`
	RemovePunctuation   bool   `env:"REMOVE_PUNCTUATION" envDefault:"true"`
	OutputCase          string `env:"OUTPUT_CASE" envDefault:"upper"`

	// Filter settings.
	FilterMinWords       int    `env:"FILTER_MIN_WORDS" envDefault:"3"`
	FilterMaxWords       int    `env:"FILTER_MAX_WORDS" envDefault:"0"`
	FilterQualityChecks  bool   `env:"FILTER_QUALITY_CHECKS" envDefault:"true"`
	ManualExclusionsFile string `env:"MANUAL_EXCLUSIONS_FILE"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile       string
	HTTPAddr      string
	LogLevel      string
	DatabaseURL   string
	TranscriptDir string
	OutputDir     string
}

// Load reads configuration from .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.DatabaseURL != "" {
		cfg.DatabaseURL = overrides.DatabaseURL
	}
	if overrides.TranscriptDir != "" {
		cfg.TranscriptDir = overrides.TranscriptDir
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}

	return cfg, nil
}

// NormalizeConfig builds the normalizer configuration from the flat env
// switches.
func (c *Config) NormalizeConfig() normalize.Config {
	return normalize.Config{
		Uppercase:                c.Uppercase,
		StripDiacritics:          c.StripDiacritics,
		RemoveTags:               c.RemoveTags,
		ExpandPhoneticLetters:    c.ExpandPhonetic,
		ExpandNumbers:            c.ExpandNumbers,
		ExpandContractions:       c.ExpandContractions,
		ApplySpellingCorrections: c.SpellingCorrections,
		RemovePunctuation:        c.RemovePunctuation,
		OutputCase:               normalize.OutputCase(c.OutputCase),
	}
}

// FilterOptions builds the transmission-filter options from the flat env
// switches. The built-in exclusion tag set is always the starting point.
func (c *Config) FilterOptions() filter.Options {
	return filter.Options{
		ExclusionTags:        filter.DefaultExclusionTags(),
		ExcludeQualityIssues: c.FilterQualityChecks,
		MinWords:             c.FilterMinWords,
		MaxWords:             c.FilterMaxWords,
		ManualExclusionsFile: c.ManualExclusionsFile,
	}
}
