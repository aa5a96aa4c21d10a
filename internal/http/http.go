// Package http builds HTTP clients that retry failed requests with
// retryablehttp.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultRetryMax     = 3
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

type Options struct {
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

// NewRetryableClient returns a retryablehttp client configured with opts.
// Zero values fall back to package defaults.
func NewRetryableClient(opts Options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.RetryWaitMin = defaultRetryWaitMin
	client.RetryWaitMax = defaultRetryWaitMax
	if opts.RetryMax > 0 {
		client.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Logger != nil {
		client.Logger = opts.Logger
	} else {
		client.Logger = nil
	}
	return client
}

// NewTransport returns a RoundTripper that retries through a retryablehttp
// client, for SDKs that only accept a transport.
func NewTransport(opts Options) http.RoundTripper {
	return &retryablehttp.RoundTripper{Client: NewRetryableClient(opts)}
}

// NewStandardClient returns a *http.Client backed by NewTransport.
func NewStandardClient(opts Options) *http.Client {
	return &http.Client{Transport: NewTransport(opts)}
}
