package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "server:\n  port: \"9090\"\nquestions:\n  backend: remote\n  remote:\n    base_url: http://backend:5000\n    timeout: 3s\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Questions.Backend != BackendRemote {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Questions.Path != "quiz_questions.csv" || cfg.Leaderboard.Backend != LeaderboardCSV {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if d := Duration(cfg.Questions.Remote.Timeout, time.Second); d != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", d)
	}
}

func TestBackendPathFollowsQuestionsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "questions:\n  backend: remote\n  path: data/questions.csv\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.Path != "data/questions.csv" {
		t.Fatalf("expected backend path to default to questions path, got %q", cfg.Backend.Path)
	}
	if cfg.Backend.Port != "5000" {
		t.Fatalf("expected default backend port, got %q", cfg.Backend.Port)
	}
}

func TestDurationFallback(t *testing.T) {
	if d := Duration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", d)
	}
	if d := Duration("soon", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for invalid, got %v", d)
	}
}
