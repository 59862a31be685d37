package fetcher

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"

	"github.com/sells-group/draftboard-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Throttle is the minimum spacing between requests. Zero disables it.
	Throttle time.Duration
	Retry    resilience.RetryConfig
}

// HTTPFetcher implements Fetcher using net/http with a courtesy throttle and
// a retry of transient failures.
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "draftboard-cli/1.0"
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Throttle > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Throttle), 1)
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		limiter: limiter,
	}
}

// Download fetches the URL and returns the response body. Bodies declared in
// a non-UTF-8 charset are transcoded to UTF-8.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string, opts ...RequestOption) (io.ReadCloser, error) {
	ro := collect(opts)

	retry := f.opts.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(hostOf(rawURL), "download")
	}

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*http.Response, error) {
		return f.get(ctx, rawURL, ro)
	})
	if err != nil {
		return nil, eris.Wrap(err, "download")
	}

	return utf8Body(resp.Body, resp.Header.Get("Content-Type")), nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string, ro requestOptions) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "throttle wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "get %s", rawURL)
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	_ = resp.Body.Close()

	statusErr := eris.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
	}
	return nil, statusErr
}

type decodedBody struct {
	io.Reader
	io.Closer
}

func utf8Body(body io.ReadCloser, contentType string) io.ReadCloser {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	cs := strings.ToLower(strings.TrimSpace(params["charset"]))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return body
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		zap.L().Debug("fetcher: unknown charset, passing body through", zap.String("charset", cs))
		return body
	}
	return decodedBody{Reader: enc.NewDecoder().Reader(body), Closer: body}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
