package services

import (
	"errors"
	"fmt"

	apperrors "github.com/exam-sarathi/learning-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Content errors
	ErrContentNotFound = errors.New("content document not found")
	ErrEmptyContent    = errors.New("content document has no usable body")

	// Progress errors
	ErrExamProgressNotFound    = errors.New("exam progress not found")
	ErrChapterProgressNotFound = errors.New("chapter progress not found")
	ErrProgressWriteFailed     = errors.New("progress write failed")

	// Scoring errors
	ErrInvalidAnswerState = errors.New("answer map references question index out of range")
	ErrNoQuestions        = errors.New("test has no questions")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ContentError carries the document path that failed to resolve.
type ContentError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (ce *ContentError) Error() string {
	return fmt.Sprintf("content %s: %v", ce.Path, ce.Err)
}

func (ce *ContentError) Unwrap() error {
	return ce.Err
}

func NewContentError(path string, err error) *ContentError {
	return &ContentError{Path: path, Err: err}
}

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrExamProgressNotFound) ||
		errors.Is(err, ErrChapterProgressNotFound)
}

// IsEmptyContent checks for the distinct "coming soon" state: the document
// exists but carries nothing usable yet.
func IsEmptyContent(err error) bool {
	return errors.Is(err, ErrEmptyContent)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInvalidAnswerState) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsWriteFailure checks if error represents a progress store write failure.
func IsWriteFailure(err error) bool {
	return errors.Is(err, ErrProgressWriteFailed)
}
