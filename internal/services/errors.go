package services

import (
	"errors"
	"fmt"

	apperrors "github.com/tunerate/feedback-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Submission specific errors
	ErrUserNotFound     = errors.New("user not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoQuestions      = errors.New("no questions for this song")
	ErrAlreadySubmitted = errors.New("user has already submitted answers for this song")

	// Feedback authoring errors
	ErrFeedbackExists    = errors.New("feedback for this song already exists")
	ErrNotSongAuthor     = errors.New("only the song author can manage its feedback")
	ErrOptionNotFound    = errors.New("option not found")
	ErrNoOpenedQuestions = errors.New("no opened questions for this song")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PersistenceError wraps a storage failure that happened after validation passed.
// The underlying cause is preserved for diagnostics.
type PersistenceError struct {
	Op  string
	Err error
}

func (pe *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", pe.Op, pe.Err)
}

func (pe *PersistenceError) Unwrap() error {
	return pe.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSongNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrNoQuestions) ||
		errors.Is(err, ErrNoOpenedQuestions) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrFeedbackExists) ||
		errors.Is(err, ErrEmailTaken)
}

// IsPersistence checks if error represents a storage failure after validation
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
