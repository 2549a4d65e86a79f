// Package errs defines the error values returned by autofmu packages.
//
// Errors are grouped by kind. Every specific error wraps exactly one kind sentinel,
// so callers can match either the precise condition or its category:
//
//	if errors.Is(err, errs.ErrInput) {
//	    // bad dataset or variable names, nothing was written
//	}
//	if errors.Is(err, errs.ErrColumnNotFound) {
//	    // a named column is missing from the dataset
//	}
//
// The kinds are:
//   - ErrInput: invalid user input (columns, dataset, model name); raised before any output exists
//   - ErrSchema: a model description violates the FMI 2.0 structure rules (internal bug)
//   - ErrPackaging: the archive cannot be assembled (path collisions, duplicate entries)
//   - ErrBuild: the native build failed
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrInput     = errors.New("invalid input")
	ErrSchema    = errors.New("schema violation")
	ErrPackaging = errors.New("packaging failed")
	ErrBuild     = errors.New("build failed")
)

// Input errors.
var (
	ErrFit                   = kind(ErrInput, "fit failed")
	ErrColumnNotFound        = kind(ErrInput, "column not found")
	ErrEmptyDataset          = kind(ErrInput, "dataset has no rows")
	ErrNoVariables           = kind(ErrInput, "no variables given")
	ErrDuplicateVariable     = kind(ErrInput, "duplicate variable name")
	ErrOverlappingVariables  = kind(ErrInput, "variable is both input and output")
	ErrNonNumeric            = kind(ErrInput, "non-numeric value")
	ErrDegenerateCategories  = kind(ErrInput, "output has fewer than two distinct categories")
	ErrInvalidModelName      = kind(ErrInput, "invalid model name")
	ErrInvalidStrategy       = kind(ErrInput, "unknown strategy")
	ErrInvalidCompression    = kind(ErrInput, "unknown compression")
	ErrInvalidTarget         = kind(ErrInput, "invalid build target")
	ErrHeaderMismatch        = kind(ErrInput, "dataset headers differ")
	ErrDuplicateColumn       = kind(ErrInput, "duplicate column name")
	ErrNonFinite             = kind(ErrInput, "non-finite parameter")
	ErrUnsupportedDataFormat = kind(ErrInput, "unsupported dataset format")
)

// Packaging errors.
var (
	ErrPathCollision = kind(ErrPackaging, "archive path collision")
	ErrEntryExists   = kind(ErrPackaging, "archive entry already exists")
	ErrInvalidPath   = kind(ErrPackaging, "invalid archive path")
)

// Build errors.
var (
	ErrToolchainNotFound = kind(ErrBuild, "build toolchain not found")
	ErrBinaryNotFound    = kind(ErrBuild, "built binary not found")
	ErrUnknownPlatform   = kind(ErrBuild, "unknown platform")
)

func kind(parent error, msg string) error {
	return fmt.Errorf("%w: %s", parent, msg)
}
