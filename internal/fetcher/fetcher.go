// Package fetcher downloads remote documents for the data source adapters.
package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads a URL and returns its body.
type Fetcher interface {
	Download(ctx context.Context, url string, opts ...RequestOption) (io.ReadCloser, error)
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
}

// WithHeader sets a request header, e.g. the fantasy filter header on
// ranking queries.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

func collect(opts []RequestOption) requestOptions {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
