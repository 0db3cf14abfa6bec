package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

// ChangeFunc rewrites a fully inlined HTML document before it is written.
type ChangeFunc func(content string) (string, error)

// Config is the typed view of the merged settings tree.
type Config struct {
	Locations LocationsConfig `yaml:"locations"`
	Sass      SassConfig      `yaml:"sass"`
	JS        JSConfig        `yaml:"js"`
	HTML      HTMLConfig      `yaml:"html"`
	Test      TestConfig      `yaml:"test"`
}

// LocationsConfig lists the conventional source directories per category.
type LocationsConfig struct {
	Elements  []string `yaml:"elements"`
	Tests     []string `yaml:"tests"`
	GlobalCSS []string `yaml:"globalCSS"`
	GlobalJS  []string `yaml:"globalJS"`
}

// SassConfig configures the style tasks.
type SassConfig struct {
	Src          []string `yaml:"src"`
	Dest         string   `yaml:"dest"`
	IncludePaths []string `yaml:"includePaths"`
	Minify       bool     `yaml:"minify"`
}

// JSConfig configures the script tasks.
type JSConfig struct {
	Src             []string `yaml:"src"`
	Dest            string   `yaml:"dest"`
	AddCoverage     bool     `yaml:"addCoverage"`
	Minify          bool     `yaml:"minify"`
	CoverageCommand []string `yaml:"coverageCommand"`
}

// HTMLConfig configures the component inlining task.
type HTMLConfig struct {
	Src               []string   `yaml:"src"`
	Dest              string     `yaml:"dest"`
	ChangeBeforeWrite bool       `yaml:"changeBeforeWrite"`
	ChangeFunction    ChangeFunc `yaml:"-"`
}

// TestConfig configures the test document inlining task.
type TestConfig struct {
	Dest     string `yaml:"dest"`
	Index    string `yaml:"index"`
	Template string `yaml:"template"`
}

// Decode converts a merged settings tree into a Config. The html
// changeFunction entry is taken as-is and never serialized; it may be a
// ChangeFunc, a func(string) (string, error) or a func(string) string.
func Decode(tree map[string]any) (*Config, error) {
	fn, stripped, err := extractChangeFunction(tree)
	if err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(stripped)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to encode settings").Build()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid settings").Fatal().Build()
	}
	cfg.HTML.ChangeFunction = fn
	return &cfg, nil
}

// extractChangeFunction returns the change function and a copy of tree
// without it. Only the top level and the html section are copied.
func extractChangeFunction(tree map[string]any) (ChangeFunc, map[string]any, error) {
	html, ok := tree["html"].(map[string]any)
	if !ok {
		return nil, tree, nil
	}
	raw, present := html["changeFunction"]
	if !present {
		return nil, tree, nil
	}

	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = v
	}
	section := make(map[string]any, len(html))
	for k, v := range html {
		if k != "changeFunction" {
			section[k] = v
		}
	}
	out["html"] = section

	switch f := raw.(type) {
	case nil:
		return nil, out, nil
	case ChangeFunc:
		return f, out, nil
	case func(string) (string, error):
		return f, out, nil
	case func(string) string:
		return func(s string) (string, error) { return f(s), nil }, out, nil
	default:
		return nil, nil, ferrors.ConfigError(fmt.Sprintf("html.changeFunction has unsupported type %T", raw)).Build()
	}
}

// Validate rejects settings no task can run with.
func (c *Config) Validate() error {
	dests := []struct {
		key   string
		value string
	}{
		{"sass.dest", c.Sass.Dest},
		{"js.dest", c.JS.Dest},
		{"html.dest", c.HTML.Dest},
		{"test.dest", c.Test.Dest},
	}
	for _, d := range dests {
		if d.value == "" {
			return ferrors.ValidationError(d.key + " cannot be empty").WithContext("key", d.key).Build()
		}
	}
	if c.JS.AddCoverage && len(c.JS.CoverageCommand) == 0 {
		return ferrors.ValidationError("js.coverageCommand cannot be empty when js.addCoverage is set").
			WithContext("key", "js.coverageCommand").
			Build()
	}
	return nil
}
