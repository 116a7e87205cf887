// Package response defines the JSON envelope the API speaks. Every
// endpoint replies with {"data": ..., "error": ...} where exactly one side
// is set, so clients can branch on error being null.
package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dealsync/dealsync/pkg/errors"
)

// Response is the envelope for every API payload.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error carries a stable machine code plus human-readable context.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success wraps data in an envelope with a null error.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail builds an error envelope with a null data field.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with the given status. Encoding failures are dropped;
// the status line is already on the wire by then.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data as a 200 success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 with the BAD_REQUEST code.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// NotFound writes a 404 with the NOT_FOUND code.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// Conflict writes a 409 with the CONFLICT code.
func Conflict(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusConflict, Fail("CONFLICT", message, details))
}

// MethodNotAllowed writes a 405 naming the rejected method.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported by this endpoint",
	))
}

// InternalError writes a 500. The cause stays server side: middleware and
// handlers log it, clients get a fixed message.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ErrorFromType maps the error taxonomy onto HTTP statuses: 409 for an
// in-flight run, 400 for caller mistakes, 500 for everything else. Wrapped
// errors are unwrapped along the way.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		scheduleErr *errors.ScheduleError
		apiErr      *errors.APIError
	)

	switch {
	case errors.IsSyncRunning(err):
		Conflict(w, "Sync already in progress",
			"wait for the current run to complete before starting another")
	case errors.IsNotFound(err):
		NotFound(w, err.Error(), "")
	case errors.IsValidationError(err),
		errors.IsUnimplementedStrategy(err),
		stderrors.As(err, &scheduleErr):
		BadRequest(w, err.Error(), "")
	case stderrors.As(err, &apiErr) && apiErr.StatusCode < 500:
		BadRequest(w, err.Error(), "")
	default:
		InternalError(w, err)
	}
}
