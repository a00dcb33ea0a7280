package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goliatone/go-freeagent/apierr"
	"github.com/goliatone/go-freeagent/paging"
	"github.com/goliatone/go-freeagent/transport"
)

// maxErrorBody bounds the response body copied into a RequestError.
const maxErrorBody = 512

// Resource is the CRUD surface of one endpoint.
type Resource[T any] interface {
	Endpoint() Endpoint
	// List returns a single page. Page selection goes through params
	// ("page", "per_page").
	List(ctx context.Context, params url.Values) ([]T, error)
	// ListAll follows rel="next" links and returns every item in page order.
	ListAll(ctx context.Context, params url.Values) ([]T, error)
	// Get loads one record by id or URL. A 404 or an empty body is an
	// apierr.NotFoundError.
	Get(ctx context.Context, idOrURL string, params url.Values) (T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, idOrURL string, record T) (T, error)
	Delete(ctx context.Context, idOrURL string) error
}

// HTTPResource implements Resource over a Client.
type HTTPResource[T any] struct {
	client   *Client
	endpoint Endpoint
}

var _ Resource[struct{}] = (*HTTPResource[struct{}])(nil)

// New binds endpoint to client.
func New[T any](client *Client, endpoint Endpoint) *HTTPResource[T] {
	return &HTTPResource[T]{client: client, endpoint: endpoint}
}

func (r *HTTPResource[T]) Endpoint() Endpoint {
	return r.endpoint
}

// CollectionURL returns the absolute list URL for params.
func (r *HTTPResource[T]) CollectionURL(params url.Values) string {
	u := r.client.baseURL + "/" + r.endpoint.Name
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// ItemURL returns the absolute URL of a record. Absolute inputs are used as
// they are.
func (r *HTTPResource[T]) ItemURL(idOrURL string) string {
	if isAbsolute(idOrURL) {
		return idOrURL
	}
	return r.client.baseURL + "/" + r.endpoint.Name + "/" + url.PathEscape(itemID(idOrURL))
}

func (r *HTTPResource[T]) decoder() paging.EnvelopeDecoder[T] {
	return paging.NewEnvelopeDecoder[T](r.endpoint.collectionKey())
}

func (r *HTTPResource[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	target := r.CollectionURL(params)
	resp, err := r.send(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	page, err := r.decoder().Decode(resp)
	if err != nil {
		return nil, &apierr.DecodeError{Endpoint: target, StatusCode: resp.StatusCode, Err: err}
	}
	return page.Items, nil
}

func (r *HTTPResource[T]) ListAll(ctx context.Context, params url.Values) ([]T, error) {
	q := cloneValues(params)
	if q.Get("per_page") == "" {
		q.Set("per_page", strconv.Itoa(r.client.perPage))
	}
	return paging.FetchAll[T](ctx, r.client.transport, r.CollectionURL(q), r.decoder(),
		paging.WithLogger(r.client.logger.With().Str("resource", r.endpoint.Name).Logger()))
}

func (r *HTTPResource[T]) Get(ctx context.Context, idOrURL string, params url.Values) (T, error) {
	var zero T

	target := r.ItemURL(idOrURL)
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	resp, err := r.send(ctx, http.MethodGet, target, nil)
	if err != nil {
		if apierr.StatusCode(err) == http.StatusNotFound {
			return zero, &apierr.NotFoundError{Resource: r.endpoint.Name, ID: idOrURL}
		}
		return zero, err
	}

	record, found, err := r.decodeSingle(resp)
	if err != nil {
		return zero, &apierr.DecodeError{Endpoint: target, StatusCode: resp.StatusCode, Err: err}
	}
	if !found {
		return zero, &apierr.NotFoundError{Resource: r.endpoint.Name, ID: idOrURL}
	}
	return record, nil
}

func (r *HTTPResource[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T

	body, err := r.encodeSingle(record)
	if err != nil {
		return zero, err
	}

	target := r.CollectionURL(nil)
	resp, err := r.send(ctx, http.MethodPost, target, body)
	if err != nil {
		return zero, err
	}

	created, found, err := r.decodeSingle(resp)
	if err != nil {
		return zero, &apierr.DecodeError{Endpoint: target, StatusCode: resp.StatusCode, Err: err}
	}
	if !found {
		return zero, &apierr.DecodeError{Endpoint: target, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("response has no %q record", r.endpoint.singularKey())}
	}
	return created, nil
}

// Update sends record to the record URL. Endpoints that answer with an empty
// body get record back unchanged.
func (r *HTTPResource[T]) Update(ctx context.Context, idOrURL string, record T) (T, error) {
	var zero T

	body, err := r.encodeSingle(record)
	if err != nil {
		return zero, err
	}

	target := r.ItemURL(idOrURL)
	resp, err := r.send(ctx, http.MethodPut, target, body)
	if err != nil {
		if apierr.StatusCode(err) == http.StatusNotFound {
			return zero, &apierr.NotFoundError{Resource: r.endpoint.Name, ID: idOrURL}
		}
		return zero, err
	}

	updated, found, err := r.decodeSingle(resp)
	if err != nil {
		return zero, &apierr.DecodeError{Endpoint: target, StatusCode: resp.StatusCode, Err: err}
	}
	if !found {
		return record, nil
	}
	return updated, nil
}

func (r *HTTPResource[T]) Delete(ctx context.Context, idOrURL string) error {
	_, err := r.send(ctx, http.MethodDelete, r.ItemURL(idOrURL), nil)
	if err != nil && apierr.StatusCode(err) == http.StatusNotFound {
		return &apierr.NotFoundError{Resource: r.endpoint.Name, ID: idOrURL}
	}
	return err
}

// send issues one request and turns non-2xx answers into RequestErrors.
func (r *HTTPResource[T]) send(ctx context.Context, method, target string, body []byte) (*transport.Response, error) {
	resp, err := r.client.transport.Send(ctx, transport.Request{Method: method, URL: target, Body: body})
	if err != nil {
		var reqErr *apierr.RequestError
		if errors.As(err, &reqErr) {
			return nil, err
		}
		return nil, &apierr.RequestError{Method: method, URL: target, PageIndex: -1, Err: err}
	}
	if !resp.Success() {
		snippet := string(resp.Body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &apierr.RequestError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			PageIndex:  -1,
			Body:       snippet,
		}
	}
	return resp, nil
}

func (r *HTTPResource[T]) encodeSingle(record T) ([]byte, error) {
	body, err := json.Marshal(map[string]T{r.endpoint.singularKey(): record})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.endpoint.singularKey(), err)
	}
	return body, nil
}

// decodeSingle reads {"<singular>": {...}}. An empty body, a missing key or a
// null record report found=false.
func (r *HTTPResource[T]) decodeSingle(resp *transport.Response) (T, bool, error) {
	var zero T
	if len(resp.Body) == 0 {
		return zero, false, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return zero, false, fmt.Errorf("envelope: %w", err)
	}
	raw, ok := envelope[r.endpoint.singularKey()]
	if !ok || string(raw) == "null" {
		return zero, false, nil
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return zero, false, fmt.Errorf("envelope %q: %w", r.endpoint.singularKey(), err)
	}
	return record, true, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
