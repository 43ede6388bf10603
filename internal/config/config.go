package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Question backends.
const (
	BackendLocal    = "local"
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Leaderboard backends.
const (
	LeaderboardCSV      = "csv"
	LeaderboardRedis    = "redis"
	LeaderboardPostgres = "postgres"
	LeaderboardMemory   = "memory"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Questions struct {
		Backend  string `yaml:"backend"`
		Path     string `yaml:"path"`
		CacheTTL string `yaml:"cache_ttl"`
		Remote   struct {
			BaseURL string `yaml:"base_url"`
			Timeout string `yaml:"timeout"`
		} `yaml:"remote"`
	} `yaml:"questions"`
	Leaderboard struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"leaderboard"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Backend struct {
		Port string `yaml:"port"`
		Path string `yaml:"path"`
	} `yaml:"backend"`
}

// Load reads YAML config from path and fills in defaults.
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

func (c *Config) applyDefaults() {
	if c.Questions.Backend == "" {
		c.Questions.Backend = BackendLocal
	}
	if c.Questions.Path == "" {
		c.Questions.Path = "quiz_questions.csv"
	}
	if c.Leaderboard.Backend == "" {
		c.Leaderboard.Backend = LeaderboardCSV
	}
	if c.Leaderboard.Path == "" {
		c.Leaderboard.Path = "leaderboard.csv"
	}
	if c.Backend.Port == "" {
		c.Backend.Port = "5000"
	}
	// The backend writes the file remote-mode quiz servers load at startup.
	if c.Backend.Path == "" {
		c.Backend.Path = c.Questions.Path
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
