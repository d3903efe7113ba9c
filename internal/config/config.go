package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/quiz"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"` // session TTL in the store
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		BankPath                string `yaml:"bank_path"` // JSON question file, used when postgres is not configured
		BankID                  string `yaml:"bank_id"`   // row ID in the question_banks table
		BankTTL                 string `yaml:"bank_ttl"`  // cache TTL for the loaded bank
		MinTimeLimitMinutes     int    `yaml:"min_time_limit_minutes"`
		MaxTimeLimitMinutes     int    `yaml:"max_time_limit_minutes"`
		DefaultTimeLimitMinutes int    `yaml:"default_time_limit_minutes"`
		SkewTolerance           string `yaml:"skew_tolerance"` // client clock skew logged beyond this
	} `yaml:"quiz"`
	Env string `yaml:"env"` // "production" switches zap to its production config
}

// Load reads YAML config from path and fills in quiz defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a config usable without any file on disk.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Quiz.MinTimeLimitMinutes == 0 {
		c.Quiz.MinTimeLimitMinutes = quiz.MinTimeLimitMinutes
	}
	if c.Quiz.MaxTimeLimitMinutes == 0 {
		c.Quiz.MaxTimeLimitMinutes = quiz.MaxTimeLimitMinutes
	}
	if c.Quiz.DefaultTimeLimitMinutes == 0 {
		c.Quiz.DefaultTimeLimitMinutes = quiz.DefaultTimeLimitMinutes
	}
	if c.Quiz.BankPath == "" {
		c.Quiz.BankPath = "data/questions.json"
	}
	if c.Quiz.BankID == "" {
		c.Quiz.BankID = "default"
	}
}

// SkewTolerance returns the parsed clock-skew logging threshold.
func (c Config) SkewTolerance() time.Duration {
	return TTLDuration(c.Quiz.SkewTolerance, 2*time.Second)
}

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
