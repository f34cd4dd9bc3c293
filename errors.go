package crossbind

import (
	"errors"
	"fmt"
	"net/http"
)

// ResolveErrorKind tags the failure mode of parameter resolution so shims can
// switch on the kind instead of matching error text.
type ResolveErrorKind int

const (
	// KindMissingParameter reports a required parameter absent from both the
	// scalar values and the body.
	KindMissingParameter ResolveErrorKind = iota + 1
	// KindCast reports a scalar value that could not be converted to its
	// declared type.
	KindCast
	// KindValidation reports a structured type that could not be constructed
	// from the request data.
	KindValidation
)

// String returns the kind's name.
func (k ResolveErrorKind) String() string {
	switch k {
	case KindMissingParameter:
		return "missing_parameter"
	case KindCast:
		return "cast"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ResolveError is the failure result of parameter resolution. Param is always
// the declared parameter name; Type is the target type for cast failures.
type ResolveError struct {
	Kind  ResolveErrorKind
	Param string
	Type  string
	err   error
}

// Error formats the failure with the parameter name first, so clients can see
// which input was at fault.
func (e *ResolveError) Error() string {
	switch e.Kind {
	case KindMissingParameter:
		return fmt.Sprintf("missing required parameter %q", e.Param)
	case KindCast:
		return fmt.Sprintf("parameter %q is not a valid %s: %v", e.Param, e.Type, e.err)
	case KindValidation:
		return fmt.Sprintf("parameter %q: %v", e.Param, e.err)
	default:
		return fmt.Sprintf("parameter %q: %v", e.Param, e.err)
	}
}

// Unwrap returns the underlying conversion or construction failure.
func (e *ResolveError) Unwrap() error { return e.err }

// AsResolveError extracts a *ResolveError from an error chain.
func AsResolveError(err error) (*ResolveError, bool) {
	var re *ResolveError
	ok := errors.As(err, &re)
	return re, ok
}

// SchemaError reports an authoring defect found while building the OpenAPI
// document — an unsupported response type, or a component name claimed by two
// different types. It aborts document generation rather than emitting a
// silently incomplete document.
type SchemaError struct {
	Route  string // "METHOD /path" when the defect is route-scoped
	Detail string
}

// Error returns the defect description.
func (e *SchemaError) Error() string {
	if e.Route == "" {
		return "openapi: " + e.Detail
	}
	return "openapi: " + e.Route + ": " + e.Detail
}

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title,omitempty"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// HTTPError is an error with an HTTP status code. Endpoints return it to
// control the response status directly.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// Problem converts an error into an RFC 9457 problem document using the
// three-way classification every shim must honor: resolution failures are the
// client's fault (422), StatusCoder errors keep their declared status, and
// anything else is an internal error (500).
func Problem(err error) *ProblemDetail {
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		return pd
	}

	if re, ok := AsResolveError(err); ok {
		return &ProblemDetail{
			Type:   "about:blank",
			Title:  "Request Resolution Failed",
			Status: http.StatusUnprocessableEntity,
			Detail: re.Error(),
		}
	}

	status := ErrorStatus(err)
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}
}
