// Package apierr defines the error taxonomy shared by the transport, paging
// and resource layers.
//
// Four kinds of failure are distinguished:
//
//   - RequestError: the request could not be sent or the server answered with a
//     non-2xx status. Always fatal to the operation that issued it.
//   - DecodeError: the response body did not have the expected shape.
//   - NotFoundError: a by-id lookup came back empty.
//   - PageCycleError: a paginated fetch saw the same page reference twice.
//
// Batch operations that tolerate per-item failures (revenue projection) never
// return these to the caller; they log them and move on.
package apierr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("resource not found")
	// ErrPageCycle is matched by every PageCycleError.
	ErrPageCycle = errors.New("pagination cycle detected")
)

// RequestError reports a transport failure or a non-success HTTP status.
// StatusCode is zero when no response was received.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	// PageIndex is the zero-based page at which a paginated fetch failed, or -1
	// for requests outside a paginated fetch.
	PageIndex int
	Body      string
	Err       error
}

func (e *RequestError) Error() string {
	prefix := fmt.Sprintf("%s %s", e.Method, e.URL)
	if e.PageIndex >= 0 {
		prefix = fmt.Sprintf("%s (page %d)", prefix, e.PageIndex)
	}
	if e.StatusCode > 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s: HTTP %d: %s", prefix, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s: HTTP %d", prefix, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Category classifies the error for the transport retry policy.
func (e *RequestError) Category() Category {
	if e.StatusCode == 0 {
		return Recoverable
	}
	return CategoryForStatus(e.StatusCode)
}

// DecodeError reports a response body that could not be decoded.
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (HTTP %d): %v", e.Endpoint, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned by by-id lookups that produce no record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PageCycleError is returned when a server hands out a next-page reference
// that was already visited in the same fetch session.
type PageCycleError struct {
	URL       string
	PageIndex int
}

func (e *PageCycleError) Error() string {
	return fmt.Sprintf("page %d references already visited page %s", e.PageIndex, e.URL)
}

func (e *PageCycleError) Is(target error) bool {
	return target == ErrPageCycle
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode extracts the HTTP status from a RequestError chain, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
