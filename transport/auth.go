package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Authorizer guarantees that a valid credential is attached to an outgoing
// request. Token acquisition and refresh are the implementation's business.
type Authorizer interface {
	EnsureAuthorized(ctx context.Context, req *http.Request) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, req *http.Request) error

// EnsureAuthorized calls f.
func (f AuthorizerFunc) EnsureAuthorized(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}

// TokenSourceAuthorizer attaches bearer tokens obtained from an oauth2
// token source. Refresh happens inside the token source.
type TokenSourceAuthorizer struct {
	source oauth2.TokenSource
}

// NewTokenSourceAuthorizer wraps src so tokens are reused until they expire.
func NewTokenSourceAuthorizer(src oauth2.TokenSource) *TokenSourceAuthorizer {
	return &TokenSourceAuthorizer{source: oauth2.ReuseTokenSource(nil, src)}
}

// NewStaticTokenAuthorizer always attaches the same access token.
func NewStaticTokenAuthorizer(accessToken string) *TokenSourceAuthorizer {
	return &TokenSourceAuthorizer{
		source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	}
}

// EnsureAuthorized fetches a token and sets the Authorization header.
func (a *TokenSourceAuthorizer) EnsureAuthorized(ctx context.Context, req *http.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tok, err := a.source.Token()
	if err != nil {
		return fmt.Errorf("obtain access token: %w", err)
	}
	if !tok.Valid() {
		return errors.New("access token is empty or expired")
	}
	tok.SetAuthHeader(req)
	return nil
}
