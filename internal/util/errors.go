package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout erptable
var (
	ErrUnsupportedFormat = errors.New("unsupported record format")
	ErrNotRecordList     = errors.New("document is not a list of records")
	ErrViewNotFound      = errors.New("view not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrColumnNotSortable = errors.New("column is not sortable")
	ErrWriteQuery        = errors.New("write statements are not allowed")
	ErrUnknownRenderer   = errors.New("unknown cell renderer")
	ErrUnknownDataset    = errors.New("unknown demo dataset")
)

// TableError is a structured error with context and suggestions
type TableError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *TableError) Error() string {
	return e.Title
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *TableError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new TableError
func NewError(title string) *TableError {
	return &TableError{Title: title}
}

// WithMessage adds a detailed message
func (e *TableError) WithMessage(msg string) *TableError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *TableError) WithContext(ctx string) *TableError {
	e.Context = ctx
	return e
}

// WithCauses adds possible causes
func (e *TableError) WithCauses(causes ...string) *TableError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestions adds actionable suggestions
func (e *TableError) WithSuggestions(sugs ...string) *TableError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *TableError) Wrap(err error) *TableError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// UnsupportedFormatError is returned for a record file with an unknown extension
func UnsupportedFormatError(path string) *TableError {
	return NewError(fmt.Sprintf("Cannot read records from '%s'", path)).
		WithMessage("Supported formats are .json, .yaml, .yml, .csv and .tsv").
		WithSuggestions(
			"erptable view data.json",
			"erptable view export.csv --view movements",
		).
		Wrap(ErrUnsupportedFormat)
}

// SourceReadError wraps a failure to open or parse a record file
func SourceReadError(path string, err error) *TableError {
	return NewError(fmt.Sprintf("Cannot read records from '%s'", path)).
		WithMessage(err.Error()).
		WithCauses(
			"The file does not exist or is not readable",
			"The file is not a list of objects (JSON/YAML) or has no header row (CSV)",
		).
		Wrap(err)
}

// ViewNotFoundError is returned when --view names no built-in or configured view
func ViewNotFoundError(name string, known []string) *TableError {
	e := NewError(fmt.Sprintf("View '%s' not found", name)).Wrap(ErrViewNotFound)
	if len(known) > 0 {
		e.WithMessage("Known views: " + strings.Join(known, ", "))
	}
	return e.WithSuggestions("erptable config --list   # Show configured views")
}

// SortColumnError is returned for a --sort flag naming a column that cannot sort
func SortColumnError(key string, err error) *TableError {
	return NewError(fmt.Sprintf("Cannot sort by '%s'", key)).
		WithMessage("The column must exist in the current view and be marked sortable").
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *TableError {
	return NewError("Cannot connect to database").
		WithContext(RedactURL(url)).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
		).
		Wrap(err)
}

// WriteQueryError is returned when `erptable sql` receives a write statement
func WriteQueryError(query string) *TableError {
	return NewError("Write operations are not allowed").
		WithMessage("erptable only displays data; run INSERT/UPDATE/DELETE elsewhere").
		WithContext(query).
		Wrap(ErrWriteQuery)
}

// RedactURL hides the password of a connection URL.
func RedactURL(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return url
	}
	userinfo := url[scheme+3 : at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		return url[:scheme+3] + userinfo[:colon] + ":****" + url[at:]
	}
	return url
}
