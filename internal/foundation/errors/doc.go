// Package errors provides the classified error primitives used across elementbuild.
//
// Errors carry a category (config, validation, filesystem, build, toolchain,
// ...), a severity and free-form context. They are created through a fluent
// builder:
//
//	err := errors.WrapError(cause, errors.CategoryBuild, "style compilation failed").
//		Warning().
//		WithContext("file", path).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
