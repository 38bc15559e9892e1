package oauth

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Option configures a provider.
type Option func(*options)

type options struct {
	httpClient *http.Client
	endpoint   *oauth2.Endpoint
	apiURL     string
}

// WithHTTPClient sets the client used for token exchange and API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithEndpoint overrides the authorization and token URLs.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(o *options) { o.endpoint = &ep }
}

// WithAPIURL overrides the REST API base, e.g. for GitHub Enterprise.
func WithAPIURL(u string) Option {
	return func(o *options) { o.apiURL = u }
}
