package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

// DefaultFile is the settings file the CLI looks for in the working directory.
const DefaultFile = "elementbuild.yaml"

// New merges overrides over the built-in defaults, applies the process
// environment flags and validates the result.
func New(overrides ...map[string]any) (*Config, error) {
	args := make([]any, 0, len(overrides))
	for _, o := range overrides {
		if o != nil {
			args = append(args, o)
		}
	}
	merged, _ := Merge(Defaults(), args...).(map[string]any)

	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile parses a YAML settings file into a settings tree. A missing file
// yields an error wrapping os.ErrNotExist.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s: %w", path, err)
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	tree := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return tree, nil
	}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return tree, nil
}

// Init writes a settings file containing the built-in defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	cfg, err := Decode(Defaults())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
