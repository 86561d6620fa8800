// Package errors provides structured, actionable error messages for
// the routeutil CLI.
//
// The errors package implements an error system that:
//   - Shows exact source locations for build failures (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: routeutil.json problems (missing file, malformed JSON)
//   - scaffold: project creation problems (existing directory, bad template)
//   - build: WebAssembly build problems (compiler errors, missing toolchain)
//   - dev: dev server problems (port in use, missing watch paths)
//   - deploy: S3 deployment problems (missing bucket, failed uploads)
//
// # Error Codes
//
// Each error has a unique code (e.g., "E141") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E141").
//	    WithLocationFromError(buildErr).
//	    WithSuggestion("Run with -v to see the full compiler output")
//
//	fmt.Println(err.Format())
package errors
