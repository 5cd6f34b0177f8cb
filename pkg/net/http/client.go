package http

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// UserAgent is sent with every catalog request.
var UserAgent = "shelf/1"

// NewClient returns the client used to reach the catalog service. When token
// is set, requests carry it as an OAuth2 bearer token. No timeout is set:
// a slow catalog only delays the render that waits on it.
func NewClient(ctx context.Context, token string) *http.Client {
	base := &http.Client{Transport: &userAgentTransport{next: http.DefaultTransport}}
	if token == "" {
		return base
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", UserAgent)
	}
	return t.next.RoundTrip(r)
}
