package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goliatone/go-freeagent/apierr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the per-request id generated by HTTPTransport.
const RequestIDHeader = "X-Request-Id"

// HTTPTransport implements Transport on top of net/http.
type HTTPTransport struct {
	client      *http.Client
	auth        Authorizer
	userAgent   string
	maxRetries  int
	baseDelay   time.Duration
	maxInterval time.Duration
	debug       bool
	logger      zerolog.Logger
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithAuthorizer installs the credential provider consulted before every request.
func WithAuthorizer(a Authorizer) Option {
	return func(t *HTTPTransport) {
		t.auth = a
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// WithRetry bounds retries of recoverable failures. maxRetries of zero
// disables retrying.
func WithRetry(maxRetries int, baseDelay, maxInterval time.Duration) Option {
	return func(t *HTTPTransport) {
		if maxRetries >= 0 {
			t.maxRetries = maxRetries
		}
		if baseDelay > 0 {
			t.baseDelay = baseDelay
		}
		if maxInterval > 0 {
			t.maxInterval = maxInterval
		}
	}
}

// WithDebug dumps requests and responses at debug level. Dumps include
// headers and bodies, do not enable in production.
func WithDebug(enabled bool) Option {
	return func(t *HTTPTransport) {
		t.debug = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *HTTPTransport) {
		t.logger = l
	}
}

// NewHTTPTransport builds a transport with a 30s timeout and two retries.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		client:      &http.Client{Timeout: 30 * time.Second},
		userAgent:   "go-freeagent",
		maxRetries:  2,
		baseDelay:   200 * time.Millisecond,
		maxInterval: 5 * time.Second,
		logger:      log.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send issues req. Recoverable failures (network errors, 408, 429, 5xx) of
// idempotent methods are retried up to the configured bound; POST and PATCH
// are sent once. When retries are exhausted on a status
// error the last response is returned without error so the caller sees the
// status. Network failures come back as *apierr.RequestError.
func (t *HTTPTransport) Send(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.NewString()
	logger := t.logger.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("url", req.URL).
		Logger()

	var (
		resp    *Response
		attempt int
	)
	retryable := idempotent(req.Method)

	operation := func() error {
		attempt++
		resp = nil

		r, err := t.roundTrip(ctx, req, requestID)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if !retryable || apierr.Classify(err) == apierr.Irrecoverable {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r

		logger.Debug().Int("attempt", attempt).Int("status_code", r.StatusCode).Msg("HTTP response")

		if r.Success() || apierr.CategoryForStatus(r.StatusCode) == apierr.Irrecoverable {
			return nil
		}
		statusErr := &apierr.RequestError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: r.StatusCode,
			PageIndex:  -1,
		}
		if !retryable {
			return backoff.Permanent(statusErr)
		}
		return statusErr
	}

	notify := func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(req.Method).Inc()
		logger.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying request")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(t.newBackOff(), ctx), notify)
	if err != nil {
		var reqErr *apierr.RequestError
		if resp != nil && errors.As(err, &reqErr) && reqErr.StatusCode > 0 {
			return resp, nil
		}
		logger.Error().Err(err).Int("attempts", attempt).Msg("HTTP request failed")
		if errors.As(err, &reqErr) {
			return nil, err
		}
		return nil, &apierr.RequestError{
			Method:    req.Method,
			URL:       req.URL,
			PageIndex: -1,
			Err:       err,
		}
	}

	return resp, nil
}

// idempotent reports whether a request with method may be repeated without
// repeating its effect on the server.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (t *HTTPTransport) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.baseDelay
	exp.MaxInterval = t.maxInterval
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(t.maxRetries))
}

func (t *HTTPTransport) roundTrip(ctx context.Context, req Request, requestID string) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &apierr.DecodeError{Endpoint: req.URL, Err: fmt.Errorf("build request: %w", err)}
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if t.auth != nil {
		if err := t.auth.EnsureAuthorized(ctx, httpReq); err != nil {
			return nil, backoff.Permanent(&apierr.RequestError{
				Method:    req.Method,
				URL:       req.URL,
				PageIndex: -1,
				Err:       fmt.Errorf("authorize request: %w", err),
			})
		}
	}

	if t.debug {
		if dump, err := httputil.DumpRequestOut(httpReq, true); err == nil {
			t.logger.Debug().Str("request_id", requestID).Str("request_dump", string(dump)).Msg("HTTP request")
		}
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		requestsTotal.WithLabelValues(req.Method, statusClass(0)).Inc()
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	requestsTotal.WithLabelValues(req.Method, statusClass(httpResp.StatusCode)).Inc()

	if t.debug {
		if dump, err := httputil.DumpResponse(httpResp, false); err == nil {
			t.logger.Debug().Str("request_id", requestID).Str("response_dump", string(dump)).Msg("HTTP response")
		}
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		URL:        req.URL,
	}, nil
}
