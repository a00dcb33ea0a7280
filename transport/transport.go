// Package transport sends requests to the accounting API.
//
// The Transport interface is the only network boundary used by the paging and
// resource layers. HTTPTransport is the default implementation: it attaches
// credentials through an Authorizer, stamps every request with an id, retries
// recoverable failures a bounded number of times and hands back the final
// response for the caller to judge. A non-2xx response is not an error at this
// level; callers decide whether it is fatal.
package transport

import (
	"context"
	"net/http"
)

// Request describes one outgoing call. URL is fully qualified.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the URL the request was sent to.
	URL string
}

// Success reports whether the status code is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport sends a request and returns the response or a transport error.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, req Request) (*Response, error)

// Send calls f.
func (f Func) Send(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Get is a convenience for a GET request without body.
func Get(ctx context.Context, t Transport, url string) (*Response, error) {
	return t.Send(ctx, Request{Method: http.MethodGet, URL: url})
}
