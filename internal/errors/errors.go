// Package errors provides the application error taxonomy for Movi.
package errors

import (
	"errors"
	"strings"
)

// ============================================================
// Error Categories
// ============================================================

// Category defines the type of error for handling decisions.
type Category int

const (
	// CategoryUser errors are due to user or model input (bad arguments,
	// unknown tool names, out-of-enum values). Recovered into tool results.
	CategoryUser Category = iota

	// CategoryPermanent errors describe state that cannot satisfy the
	// request (entity not found, duplicate name, trip already deployed).
	// Recovered into tool results.
	CategoryPermanent

	// CategorySystem errors are persistence-level faults (connection,
	// transaction). Never recovered locally; they fail the turn.
	CategorySystem

	// CategoryTemporary errors come from the model call (unavailable,
	// unparseable output). They fail the turn but are safe to retry.
	CategoryTemporary
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategoryPermanent:
		return "permanent"
	case CategorySystem:
		return "system"
	case CategoryTemporary:
		return "temporary"
	default:
		return "unknown"
	}
}

// ============================================================
// AppError - Main Error Type
// ============================================================

// AppError is the main error type for all Movi errors.
type AppError struct {
	// Code is a unique error code for programmatic handling
	Code string

	// Message is a user-friendly error message
	Message string

	// Category determines how the error should be handled
	Category Category

	// Inner is the underlying error
	Inner error
}

// Error returns the error message.
func (e *AppError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}

	sb.WriteString(e.Message)

	if e.Inner != nil {
		innerMsg := e.Inner.Error()
		if innerMsg != "" && innerMsg != e.Message {
			sb.WriteString(": ")
			sb.WriteString(innerMsg)
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Inner
}

// Is checks if the target error is contained in this error.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Inner, target)
}

// ============================================================
// Error Constructors
// ============================================================

// New creates a new AppError.
func New(code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// Wrap wraps an existing error with context.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Inner:    err,
	}
}

// NotFound creates an entity-resolution miss error.
func NotFound(kind, identifier string) *AppError {
	return &AppError{
		Code:     CodeEntityNotFound,
		Message:  kind + " '" + identifier + "' not found",
		Category: CategoryPermanent,
	}
}

// Validation creates a user/model input error.
func Validation(message string) *AppError {
	return &AppError{
		Code:     CodeValidationFailed,
		Message:  message,
		Category: CategoryUser,
	}
}

// Conflict creates a precondition-violation error (duplicate name,
// trip already deployed). Dispatch aborts before any write.
func Conflict(message string) *AppError {
	return &AppError{
		Code:     CodeConflict,
		Message:  message,
		Category: CategoryPermanent,
	}
}

// Persistence wraps a database fault. Fails the turn.
func Persistence(err error, message string) *AppError {
	return Wrap(err, CodeStoreFailed, message, CategorySystem)
}

// ============================================================
// Error Codes
// ============================================================

const (
	// Tool-level errors, recovered into descriptive tool results
	CodeEntityNotFound   = "ENTITY_NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeConflict         = "CONFLICT"
	CodeToolNotFound     = "TOOL_NOT_FOUND"

	// Turn-level errors, surfaced to the HTTP boundary
	CodeStoreFailed          = "STORE_FAILED"
	CodeModelUnavailable     = "MODEL_UNAVAILABLE"
	CodeModelInvalidResponse = "MODEL_INVALID_RESPONSE"
	CodeTurnLimit            = "TURN_LIMIT"

	// Config errors
	CodeConfigInvalid = "CONFIG_INVALID"
)

// ============================================================
// Helpers
// ============================================================

// GetCategory extracts the category from an error.
// Returns CategorySystem for non-AppError errors (safe default: fail the turn).
func GetCategory(err error) Category {
	if err == nil {
		return CategoryTemporary
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}

	return CategorySystem
}

// IsToolRecoverable reports whether the error should be folded into a
// descriptive tool result instead of failing the turn.
func IsToolRecoverable(err error) bool {
	switch GetCategory(err) {
	case CategoryUser, CategoryPermanent:
		return true
	default:
		return false
	}
}
