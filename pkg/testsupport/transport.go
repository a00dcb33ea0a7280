package testsupport

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/goliatone/go-freeagent/transport"
)

// Route is a canned answer for one URL.
type Route struct {
	Status int
	Body   string
	Header http.Header
	Err    error
}

// ScriptedTransport answers requests from a URL-keyed script and records
// every call. Unscripted URLs get a 404.
type ScriptedTransport struct {
	mu     sync.Mutex
	routes map[string]Route
	calls  []transport.Request
}

var _ transport.Transport = (*ScriptedTransport)(nil)

// NewScriptedTransport returns an empty script.
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{routes: make(map[string]Route)}
}

// On scripts the answer for "METHOD url" or, when method is empty, for any
// method on url.
func (s *ScriptedTransport) On(method, url string, r Route) *ScriptedTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeKey(method, url)] = r
	return s
}

// Page scripts a 200 JSON page whose Link header points at next.
func (s *ScriptedTransport) Page(url, body, next string) *ScriptedTransport {
	h := http.Header{}
	if next != "" {
		h.Set("Link", fmt.Sprintf("<%s>; rel='next'", next))
	}
	return s.On(http.MethodGet, url, Route{Status: http.StatusOK, Body: body, Header: h})
}

// Send implements transport.Transport.
func (s *ScriptedTransport) Send(ctx context.Context, req transport.Request) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.calls = append(s.calls, req)
	r, ok := s.routes[routeKey(req.Method, req.URL)]
	if !ok {
		r, ok = s.routes[routeKey("", req.URL)]
	}
	s.mu.Unlock()

	if !ok {
		return &transport.Response{StatusCode: http.StatusNotFound, Header: http.Header{}, URL: req.URL}, nil
	}
	if r.Err != nil {
		return nil, r.Err
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := r.Header
	if header == nil {
		header = http.Header{}
	}
	return &transport.Response{StatusCode: status, Header: header, Body: []byte(r.Body), URL: req.URL}, nil
}

// Calls returns a copy of the recorded requests.
func (s *ScriptedTransport) Calls() []transport.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transport.Request(nil), s.calls...)
}

// CallCount counts requests sent to url with any method.
func (s *ScriptedTransport) CallCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.URL == url {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps the script.
func (s *ScriptedTransport) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func routeKey(method, url string) string {
	return method + " " + url
}
