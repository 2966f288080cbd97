// Package errors provides standardized error handling for the award monitor.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Evaluation-input errors: bad input or bad configuration, never retried.
const (
	ErrCodeUnknownAirport          ErrorCode = "UNKNOWN_AIRPORT"
	ErrCodeUnknownChart            ErrorCode = "UNKNOWN_CHART"
	ErrCodeInvalidChart            ErrorCode = "INVALID_CHART"
	ErrCodeDistanceOutOfChartRange ErrorCode = "DISTANCE_OUT_OF_CHART_RANGE"
	ErrCodeUnsupportedCabinClass   ErrorCode = "UNSUPPORTED_CABIN_CLASS"
	ErrCodeInvalidPointCost        ErrorCode = "INVALID_POINT_COST"
	ErrCodeInvalidSearchRequest    ErrorCode = "INVALID_SEARCH_REQUEST"
)

// Infrastructure errors: degraded at the orchestrator boundary, never fatal.
const (
	ErrCodeSourceSearchFailed     ErrorCode = "SOURCE_SEARCH_FAILED"
	ErrCodeSourceTimeout          ErrorCode = "SOURCE_TIMEOUT"
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from an error chain, or "" if the error
// is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// ==========================
// Error Constructors
// ==========================

// NewUnknownAirportError creates a non-retryable airport lookup error.
func NewUnknownAirportError(airportCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownAirport,
		Message:   "Airport not found in coordinate table",
		Details:   fmt.Sprintf("airportCode: %s", airportCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownChartError creates a non-retryable chart lookup error.
func NewUnknownChartError(chartName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownChart,
		Message:   "Award chart not registered",
		Details:   fmt.Sprintf("chartName: %s", chartName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidChartError creates a non-retryable chart validation error.
// Raised once at registration, never at evaluation.
func NewInvalidChartError(chartName, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidChart,
		Message:   "Award chart failed validation",
		Details:   fmt.Sprintf("chartName: %s, %s", chartName, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDistanceOutOfChartRangeError creates a non-retryable band lookup error.
func NewDistanceOutOfChartRangeError(chartName string, distance float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeDistanceOutOfChartRange,
		Message:   "No distance band matches the flight distance",
		Details:   fmt.Sprintf("chartName: %s, distance: %.0f miles", chartName, distance),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedCabinClassError creates a non-retryable cabin lookup error.
func NewUnsupportedCabinClassError(chartName, cabinClass string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedCabinClass,
		Message:   "Distance band has no entry for cabin class",
		Details:   fmt.Sprintf("chartName: %s, cabinClass: %s", chartName, cabinClass),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPointCostError creates a non-retryable point cost error.
func NewInvalidPointCostError(points int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPointCost,
		Message:   "Point cost must be positive",
		Details:   fmt.Sprintf("points: %d", points),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSearchRequestError creates a non-retryable request validation error.
func NewInvalidSearchRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSearchRequest,
		Message:   "Search request failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceSearchFailedError creates a retryable upstream source error.
func NewSourceSearchFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceSearchFailed,
		Message:   "Upstream flight source error",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceTimeoutError creates a retryable upstream source timeout error.
func NewSourceTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceTimeout,
		Message:   "Upstream flight source timeout",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache storage error.
// Callers treat it as a cache miss rather than failing the search.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Result cache storage error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
