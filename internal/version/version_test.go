package version

import "testing"

func TestString(t *testing.T) {
	defer func(v, c, b string) { Version, GitCommit, BuildTime = v, c, b }(Version, GitCommit, BuildTime)

	Version, GitCommit, BuildTime = "v1.2.0", "abc123", "2026-01-02"
	if got, want := String(), "elementbuild v1.2.0 (commit abc123, built 2026-01-02)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDefaultsNotEmpty(t *testing.T) {
	if Version == "" || GitCommit == "" || BuildTime == "" {
		t.Error("build metadata should never be empty")
	}
}
