package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "elementbuild.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "elementbuild.yaml" {
			t.Errorf("expected context file=elementbuild.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Build errors are warnings", func(t *testing.T) {
		err := BuildError("sass failed").Build()
		if err.IsFatal() || err.Severity() != SeverityWarning {
			t.Errorf("expected warning severity, got %s", err.Severity())
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("original error")
	err := WrapError(originalErr, CategoryToolchain, "transpile failed").
		Warning().
		WithContext("file", "app/js/main.js").
		WithContext("line", 3).
		Build()

	if err.Cause() != originalErr {
		t.Error("expected cause to be preserved")
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected errors.Is to find the original error")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("expected warning, got %s", err.Severity())
	}
	if line, ok := err.Context().Get("line"); !ok || line != 3 {
		t.Errorf("expected line=3, got %v", line)
	}
	want := "[toolchain:warning] transpile failed: original error"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestErrorContext(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("key1", "value1")
	if v, ok := ctx.GetString("key1"); !ok || v != "value1" {
		t.Errorf("expected value1, got %v", v)
	}

	merged := ctx.Merge(ErrorContext{"key1": "override", "key2": 2})
	if v, _ := merged.GetString("key1"); v != "override" {
		t.Errorf("expected override, got %v", v)
	}
	if _, ok := merged.GetString("key2"); ok {
		t.Error("expected non-string value to not be returned by GetString")
	}
	if v, _ := ctx.GetString("key1"); v != "value1" {
		t.Error("expected Merge to leave the receiver untouched")
	}
}

func TestClassifiedErrorWithContextIsImmutable(t *testing.T) {
	base := BuildError("inline failed").Build()
	derived := base.WithContext("file", "x.html")

	if _, ok := base.Context().Get("file"); ok {
		t.Error("expected base context to be unchanged")
	}
	if v, _ := derived.Context().GetString("file"); v != "x.html" {
		t.Errorf("expected derived file context, got %v", v)
	}
}

func TestHelpersOnForeignErrors(t *testing.T) {
	plain := errors.New("plain")
	if GetCategory(plain) != CategoryInternal {
		t.Error("expected unclassified errors to default to internal")
	}
	if GetSeverity(plain) != SeverityError {
		t.Error("expected unclassified errors to default to error severity")
	}

	wrapped := fmt.Errorf("context: %w", FileSystemError("denied").Build())
	if GetCategory(wrapped) != CategoryFileSystem {
		t.Error("expected category to be found through wrapping")
	}
}

func TestLogAttrsSorted(t *testing.T) {
	err := BuildError("x").WithContext("zeta", 1).WithContext("alpha", 2).Build()
	attrs := err.LogAttrs()
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attrs, got %d", len(attrs))
	}
	if attrs[2].Key != "alpha" || attrs[3].Key != "zeta" {
		t.Errorf("expected sorted context keys, got %s,%s", attrs[2].Key, attrs[3].Key)
	}
}
