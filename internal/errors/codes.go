// Package errors provides structured error handling for audparity.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Library binding errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryBind indicates dynamic library loading and symbol errors.
	CategoryBind Category = "BIND"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound = "ERR_201_FILE_NOT_FOUND"
	ErrCodeResultsWrite = "ERR_202_RESULTS_WRITE"
	ErrCodeHistoryStore = "ERR_203_HISTORY_STORE"

	// Bind errors (300-399)
	// ErrCodeLoadFailed means the library image could not be loaded at all
	// (not found, wrong architecture, missing co-located dependency).
	ErrCodeLoadFailed = "ERR_301_LOAD_FAILED"
	// ErrCodeEntryPointMissing means the image loaded but a mandatory entry
	// point (Aud_InitDll or Aud_OpenGetFile) could not be resolved.
	ErrCodeEntryPointMissing = "ERR_302_ENTRY_POINT_MISSING"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidPath  = "ERR_402_INVALID_PATH"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryBind
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code. Bind errors are
// warnings: a failed bind still produces a sentinel run record and the
// comparison continues.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryBind:
		return SeverityWarning
	case CategoryConfig, CategoryValidation:
		return SeverityFatal
	default:
		return SeverityError
	}
}
