// Package config reads Attendly settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application settings.
type Config struct {
	File            string
	LogLevel        slog.Level
	DangerThreshold int
	DefaultTarget   int
	GeminiAPIKey    string
	GeminiModel     string
}

// Load reads envFile if it exists, then the environment.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load %s: %w", envFile, err)
	}

	cfg := &Config{
		File:         getEnv("ATTENDLY_FILE", "attendly.yml"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("ATTENDLY_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid ATTENDLY_LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.DangerThreshold, err = getPercent("ATTENDLY_DANGER_THRESHOLD", 60); err != nil {
		return nil, err
	}
	if cfg.DefaultTarget, err = getPercent("ATTENDLY_DEFAULT_TARGET", 75); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getPercent(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("invalid %s: %d is not between 0 and 100", key, v)
	}
	return v, nil
}
