// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Document errors
	CodeFormat        Code = "FORMAT_ERROR"
	CodePathNotFound  Code = "PATH_NOT_FOUND"
	CodeInvalidPlayer Code = "INVALID_PLAYER"

	// Resolution errors
	CodeBadWorldFormat Code = "BAD_WORLD_FORMAT"
	CodeMissingWorld   Code = "MISSING_WORLD"
	CodeMissingPlayer  Code = "MISSING_PLAYER"

	// Filesystem errors
	CodeNotFound Code = "NOT_FOUND"
	CodeIO       Code = "IO_ERROR"
)

// ExitCode maps domain codes to process exit statuses for CLI entry points.
func (c Code) ExitCode() int {
	switch c {
	case "":
		return 0
	// Usage - input is insufficient or self-contradictory
	case CodeBadWorldFormat,
		CodeMissingWorld,
		CodeMissingPlayer:
		return 2

	// Missing - a resolved file or tree path does not exist
	case CodeNotFound,
		CodePathNotFound:
		return 3

	// Data - a document is malformed or has the wrong shape
	case CodeFormat,
		CodeInvalidPlayer:
		return 4

	// IO - filesystem read or write failed
	case CodeIO:
		return 5

	default:
		return 1
	}
}
