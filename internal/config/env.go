package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/elementbuild/internal/logfields"
)

// Process environment flags that override the merged settings.
const (
	EnvProduction = "PRODUCTION"
	EnvCoverage   = "COVERAGE"
)

// envFiles are loaded in order; variables already present in the process
// environment are never overwritten.
var envFiles = []string{".env", ".env.local"}

// LoadDotEnv loads .env and .env.local from dir when present and returns the
// files that were applied.
func LoadDotEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, err
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// ApplyEnv forces minification when PRODUCTION is true and coverage
// instrumentation when COVERAGE is true. Unset, false or unparsable values
// leave cfg untouched.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if envFlag(lookup, EnvProduction) {
		cfg.Sass.Minify = true
		cfg.JS.Minify = true
	}
	if envFlag(lookup, EnvCoverage) {
		cfg.JS.AddCoverage = true
	}
}

func envFlag(lookup func(string) (string, bool), name string) bool {
	raw, ok := lookup(name)
	if !ok || raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Ignoring unparsable environment flag", slog.String("name", name), slog.String("value", raw), logfields.Error(err))
		return false
	}
	return v
}
