package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrEnhancementFailed   = errors.New("prompt enhancement failed")
	ErrGenerationFailed    = errors.New("code generation failed")
)

// InsufficientCreditsError is returned when a user cannot afford a costed
// operation. Carries the cost and the observed balance for the response body.
type InsufficientCreditsError struct {
	Required int
	Balance  int
}

func (e *InsufficientCreditsError) Error() string {
	return "add more credits to make changes"
}

func (e *InsufficientCreditsError) StatusCode() int {
	return http.StatusForbidden
}

// Is allows errors.Is() to match against ErrInsufficientCredits
func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// GenerationError is returned when an external generation call fails or
// produces no output. Stage distinguishes the enhancement call from the code
// generation call. Credits are always refunded before this error surfaces.
type GenerationError struct {
	Stage   string // "enhancement" or "generation"
	Message string
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) StatusCode() int {
	return http.StatusBadGateway
}

// Is allows errors.Is() to match the stage-specific sentinels
func (e *GenerationError) Is(target error) bool {
	switch e.Stage {
	case "enhancement":
		return target == ErrEnhancementFailed
	case "generation":
		return target == ErrGenerationFailed
	}
	return false
}
