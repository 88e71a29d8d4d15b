package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport-level errors (timeout, refused, non-2xx)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML or structured-data parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting by the source site
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConversion represents currency conversion errors
	ErrorTypeConversion ErrorType = "conversion"
	// ErrorTypeState represents dedup-state persistence errors
	ErrorTypeState ErrorType = "state"
	// ErrorTypeNotify represents notification dispatch errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents an error from one stage of the monitoring pipeline
type PipelineError struct {
	Type    ErrorType
	Scope   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Scope, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Scope, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a future run may succeed without intervention
func (e *PipelineError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(errType ErrorType, scope, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Scope:   scope,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(scope, message string, err error) *PipelineError {
	return New(ErrorTypeNetwork, scope, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(scope, message string, err error) *PipelineError {
	return New(ErrorTypeParsing, scope, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(scope, retryAfter string) *PipelineError {
	message := "rate limited"
	if retryAfter != "" {
		message = fmt.Sprintf("rate limited; retry after %s", retryAfter)
	}
	return New(ErrorTypeRateLimit, scope, message, nil)
}

// NewConversion creates a new currency conversion error
func NewConversion(scope, message string, err error) *PipelineError {
	return New(ErrorTypeConversion, scope, message, err)
}

// NewState creates a new state persistence error
func NewState(scope, message string, err error) *PipelineError {
	return New(ErrorTypeState, scope, message, err)
}

// NewNotify creates a new notification dispatch error
func NewNotify(scope, message string, err error) *PipelineError {
	return New(ErrorTypeNotify, scope, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a PipelineError of the given type
func IsType(err error, t ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == t
	}
	return false
}
