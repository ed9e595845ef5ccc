// Package client implements the vault client: the HTTP remote-store
// adapter, local device state, and the service gluing the crypto engine
// to both.
package client

import (
	"net/http"
	"time"

	"github.com/vaultigo/vaultigo/internal/middleware"
)

// identityTransport stamps every outgoing request with the anonymous
// identity header the record store requires.
type identityTransport struct {
	userID string
	base   http.RoundTripper
}

func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set(middleware.UserHeader, t.userID)
	return t.base.RoundTrip(clone)
}

// NewIdentityClient returns an HTTP client that authenticates as the
// given anonymous identity on every request.
func NewIdentityClient(userID string) *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &identityTransport{
			userID: userID,
			base:   http.DefaultTransport,
		},
	}
}
