// path: blockbrain/internal/config/config.go
// Package config holds the settings shared by the blockbrain binaries and
// their env/file fallbacks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"blockbrain/internal/brain"
)

// Limits on accepted board sizes. Requests larger than this are rejected
// before a grid is allocated.
const (
	MaxWidth  = 64
	MaxHeight = 256
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid")
)

type Config struct {
	Addr         string        `json:"addr"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	HeightLimit  int           `json:"height_limit"`
	Rater        string        `json:"rater"`
	Weights      brain.Weights `json:"weights"`
	MaxBodyBytes int64         `json:"max_body_bytes"`
	Checks       bool          `json:"checks"`
	LogLevel     string        `json:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		Width:        10,
		Height:       20,
		HeightLimit:  0, // whole board
		Rater:        brain.RaterDefault,
		Weights:      brain.DefaultWeights(),
		MaxBodyBytes: 1 << 20,
		Checks:       false,
		LogLevel:     "info",
	}
}

// Load reads a JSON file over the defaults. An empty path returns the
// defaults unchanged; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (c Config) Validate() error {
	if c.Width < 1 || c.Width > MaxWidth {
		return fmt.Errorf("%w: width %d outside 1..%d", ErrInvalid, c.Width, MaxWidth)
	}
	if c.Height < 1 || c.Height > MaxHeight {
		return fmt.Errorf("%w: height %d outside 1..%d", ErrInvalid, c.Height, MaxHeight)
	}
	if c.HeightLimit < 0 || c.HeightLimit > c.Height {
		return fmt.Errorf("%w: height limit %d outside 0..%d", ErrInvalid, c.HeightLimit, c.Height)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max body bytes must be positive", ErrInvalid)
	}
	if _, err := brain.NewRater(c.Rater, c.Weights); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// EffectiveHeightLimit resolves a zero limit to the board height.
func (c Config) EffectiveHeightLimit() int {
	if c.HeightLimit == 0 {
		return c.Height
	}
	return c.HeightLimit
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (zerolog.Level, error) { return parseLevel(c.LogLevel) }

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func GetenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
