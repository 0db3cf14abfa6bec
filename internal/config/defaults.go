package config

// Built-in destinations and document defaults.
const (
	DefaultSassDest     = "build/sass"
	DefaultJSDest       = "build/js"
	DefaultHTMLDest     = "build/inline"
	DefaultTestDest     = "build/test"
	DefaultTestIndex    = "app/index.html"
	DefaultTestTemplate = "app/unit-test-template.html"
)

// Defaults returns a fresh copy of the built-in settings tree. Every leaf
// has a value of the type the typed Config expects.
func Defaults() map[string]any {
	return map[string]any{
		"locations": map[string]any{
			"elements":  []any{"app/elements", "app/pages", "app/behaviors", "app/dependency-imports"},
			"tests":     []any{"test"},
			"globalCSS": []any{"app/css"},
			"globalJS":  []any{"app/js"},
		},
		"sass": map[string]any{
			"src":          []any{},
			"dest":         DefaultSassDest,
			"includePaths": []any{".", "app", "app/elements", "app/pages", "app/css", "bower_components", "node_modules"},
			"minify":       false,
		},
		"js": map[string]any{
			"src":             []any{},
			"dest":            DefaultJSDest,
			"addCoverage":     false,
			"minify":          false,
			"coverageCommand": []any{"npx", "nyc", "instrument"},
		},
		"html": map[string]any{
			"src":               []any{},
			"dest":              DefaultHTMLDest,
			"changeBeforeWrite": false,
		},
		"test": map[string]any{
			"dest":     DefaultTestDest,
			"index":    DefaultTestIndex,
			"template": DefaultTestTemplate,
		},
	}
}
