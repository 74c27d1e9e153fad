package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blockbrain/internal/brain"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
	if got := cfg.EffectiveHeightLimit(); got != cfg.Height {
		t.Fatalf("expected height limit %d, got %d", cfg.Height, got)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockbrain.json")
	if err := os.WriteFile(path, []byte(`{"width": 6, "rater": "adversarial", "weights": {"holes": 3}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultConfig()
	want.Width = 6
	want.Rater = brain.RaterAdversarial
	want.Weights.Holes = 3
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load(" ")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := DefaultConfig()
	cfg.Weights = brain.Weights{MaxHeight: 1.5, AvgHeight: 2, Holes: 9, Bumpiness: 0.5}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"wide", func(c *Config) { c.Width = MaxWidth + 1 }},
		{"tall", func(c *Config) { c.Height = MaxHeight + 1 }},
		{"negative limit", func(c *Config) { c.HeightLimit = -1 }},
		{"limit above height", func(c *Config) { c.HeightLimit = c.Height + 1 }},
		{"body", func(c *Config) { c.MaxBodyBytes = 0 }},
		{"rater", func(c *Config) { c.Rater = "nope" }},
		{"level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = " DEBUG "
	lvl, err := cfg.Level()
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	if lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
	cfg.LogLevel = ""
	if lvl, _ := cfg.Level(); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info, got %v", lvl)
	}
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("BLOCKBRAIN_TEST_STR", "x")
	t.Setenv("BLOCKBRAIN_TEST_BOOL", " Yes ")
	t.Setenv("BLOCKBRAIN_TEST_BAD_BOOL", "maybe")
	t.Setenv("BLOCKBRAIN_TEST_INT", "42")
	t.Setenv("BLOCKBRAIN_TEST_BAD_INT", "4x")

	if got := Getenv("BLOCKBRAIN_TEST_STR", "d"); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
	if got := Getenv("BLOCKBRAIN_TEST_UNSET", "d"); got != "d" {
		t.Fatalf("expected d, got %q", got)
	}
	if !GetenvBool("BLOCKBRAIN_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	if GetenvBool("BLOCKBRAIN_TEST_BAD_BOOL", false) {
		t.Fatalf("expected fallback false")
	}
	if got := GetenvInt("BLOCKBRAIN_TEST_INT", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := GetenvInt("BLOCKBRAIN_TEST_BAD_INT", 1); got != 1 {
		t.Fatalf("expected fallback 1, got %d", got)
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if err := SetupLogging(&buf, "warn"); err != nil {
		t.Fatalf("setup logging: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("expected only the warning, got %q", out)
	}
	if err := SetupLogging(&buf, "loud"); err == nil {
		t.Fatalf("expected error for an unknown level")
	}
}
