// Package errors defines the error taxonomy for a sync run. Each stage
// of the pipeline (connect, fetch, merge, write, notify) has a typed
// error carrying the context that stage knows, and the types map onto a
// small set of sentinels through Is methods so callers can classify any
// error with errors.Is or the predicate helpers at the bottom of this
// file. The HTTP layer relies on that classification to choose response
// codes.
package errors

import (
	"errors"
	"fmt"
)

// New is the standard library's errors.New, re-exported so callers of
// this package don't need a second import for one-off messages.
var New = errors.New

// Sentinels. The typed errors below match these through their Is
// methods, so a single errors.Is call classifies the whole taxonomy.
var (
	// ErrSyncRunning rejects a trigger while a run is already in flight.
	ErrSyncRunning = errors.New("sync already running")

	// ErrNotConnected means a fetch was attempted before Connect succeeded.
	ErrNotConnected = errors.New("not connected")

	// ErrNotConfigured means a component is missing settings it cannot default.
	ErrNotConfigured = errors.New("not configured")

	// ErrUnimplementedStrategy marks a conflict strategy that parses as
	// valid configuration but has no resolution behavior behind it.
	ErrUnimplementedStrategy = errors.New("conflict strategy not implemented")

	// ErrInvalidInput is the match target for every validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is the match target for missing-resource lookups.
	ErrNotFound = errors.New("not found")

	// ErrSystemUnavailable is the match target for vendor 5xx responses.
	ErrSystemUnavailable = errors.New("system unavailable")

	// ErrRateLimited is the match target for vendor 429 responses.
	ErrRateLimited = errors.New("rate limited")
)

// Validation and configuration errors. These reject bad input before a
// run starts, so the API layer maps them to 400s.

// ValidationError reports a value that failed a validation rule. Field
// is empty when the failure concerns the input as a whole rather than
// one field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError reports that value failed validation for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// UnimplementedStrategyError names a conflict strategy that is accepted
// as configuration but cannot resolve anything yet. Runs configured
// with one fail fast instead of guessing.
type UnimplementedStrategyError struct {
	Strategy string
}

func (e *UnimplementedStrategyError) Error() string {
	return fmt.Sprintf("conflict strategy %q is accepted but not implemented", e.Strategy)
}

func (e *UnimplementedStrategyError) Is(target error) bool {
	return target == ErrUnimplementedStrategy
}

// NewUnimplementedStrategyError marks strategy as recognized but inert.
func NewUnimplementedStrategyError(strategy string) *UnimplementedStrategyError {
	return &UnimplementedStrategyError{Strategy: strategy}
}

// ConfigError reports settings that parse but cannot work, attributed
// to the component that rejected them.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("%s configuration error: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError attributes a configuration problem to component.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ScheduleError reports a cron expression the parser rejected.
type ScheduleError struct {
	Expression string
	Err        error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule %q: %v", e.Expression, e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }

// NewScheduleError wraps a cron parse failure with the offending expression.
func NewScheduleError(expression string, err error) *ScheduleError {
	return &ScheduleError{Expression: expression, Err: err}
}

// External system errors. Everything under here names the vendor it
// came from, because a run talks to three of them and the report has to
// say which one misbehaved.

// ConnectionError records a failed attempt to establish a session with
// an external system. Connect failures do not abort a run; the
// orchestrator notes them and works with whatever sources it reached.
type ConnectionError struct {
	System  string
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("failed to connect to %s: %v", e.System, e.Err)
	}
	return fmt.Sprintf("failed to connect to %s: %s", e.System, e.Message)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NewConnectionError wraps err as a connect failure against system.
func NewConnectionError(system string, err error) *ConnectionError {
	return &ConnectionError{System: system, Err: err}
}

// AuthenticationError records rejected credentials. Method says which
// credential kind was tried: "password", "api_token", or
// "service_account".
type AuthenticationError struct {
	System  string
	Method  string
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.System == "" {
		return fmt.Sprintf("authentication failed (%s): %s", e.Method, e.Message)
	}
	return fmt.Sprintf("%s authentication failed (%s): %s", e.System, e.Method, e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NewAuthenticationError records a credential rejection by system.
func NewAuthenticationError(system, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{System: system, Method: method, Message: message, Err: err}
}

// APIError carries a vendor HTTP failure with enough detail to decide
// whether retrying makes sense.
type APIError struct {
	System     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API error: %s", e.System, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.System, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is folds vendor status codes into the retry-relevant sentinels: 429
// is a rate limit, 5xx is a vendor outage.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrSystemUnavailable
	default:
		return false
	}
}

// NewAPIError builds an APIError from a vendor response.
func NewAPIError(system string, statusCode int, message string) *APIError {
	return &APIError{System: system, StatusCode: statusCode, Message: message}
}

// FetchError records a failed record retrieval from a source system.
type FetchError struct {
	Source  string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("failed to fetch from %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("failed to fetch from %s: %s", e.Source, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err as a fetch failure against source.
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// Output errors: the write and notify stages at the end of a run.

// WriteError records a failed spreadsheet write. Target is the
// spreadsheet ID or sheet name, Range the A1 range when one applies.
type WriteError struct {
	Target string
	Range  string
	Err    error
}

func (e *WriteError) Error() string {
	if e.Range == "" {
		return fmt.Sprintf("failed to write %s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("failed to write %s range %s: %v", e.Target, e.Range, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NewWriteError wraps err as a spreadsheet write failure.
func NewWriteError(target, rng string, err error) *WriteError {
	return &WriteError{Target: target, Range: rng, Err: err}
}

// NotifyError records a report email that never reached its recipient.
type NotifyError struct {
	Recipient string
	Err       error
}

func (e *NotifyError) Error() string {
	if e.Recipient == "" {
		return fmt.Sprintf("failed to send notification: %v", e.Err)
	}
	return fmt.Sprintf("failed to notify %s: %v", e.Recipient, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// NewNotifyError wraps err as a delivery failure to recipient.
func NewNotifyError(recipient string, err error) *NotifyError {
	return &NotifyError{Recipient: recipient, Err: err}
}

// Predicates. Each one answers errors.Is against a single sentinel;
// they exist so call sites read as questions.

// IsSyncRunning reports whether err means a run is already in flight.
func IsSyncRunning(err error) bool {
	return errors.Is(err, ErrSyncRunning)
}

// IsNotConnected reports whether err is a missing-connect precondition.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsNotConfigured reports whether err means required settings are absent.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsUnimplementedStrategy reports whether err names an inert conflict strategy.
func IsUnimplementedStrategy(err error) bool {
	return errors.Is(err, ErrUnimplementedStrategy)
}

// IsValidationError reports whether err is any validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound reports whether err is a missing-resource lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSystemUnavailable reports whether err is a vendor outage.
func IsSystemUnavailable(err error) bool {
	return errors.Is(err, ErrSystemUnavailable)
}

// Wrap helpers for the hot paths. All of them pass nil through so they
// can wrap a call's error return directly.

// WrapConnection wraps err as a ConnectionError against system.
func WrapConnection(system string, err error) error {
	if err == nil {
		return nil
	}
	return NewConnectionError(system, err)
}

// WrapFetch wraps err as a FetchError against source.
func WrapFetch(source string, err error) error {
	if err == nil {
		return nil
	}
	return NewFetchError(source, err)
}

// WrapWrite wraps err as a WriteError for target and range.
func WrapWrite(target, rng string, err error) error {
	if err == nil {
		return nil
	}
	return NewWriteError(target, rng, err)
}
