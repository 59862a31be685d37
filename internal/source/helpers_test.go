package source

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/draftboard-cli/internal/fetcher"
	"github.com/sells-group/draftboard-cli/internal/resilience"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

func testFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: "draftboard-test",
		Timeout:   5 * time.Second,
		Retry:     resilience.RetryConfig{MaxAttempts: 1},
	})
}

func testTables(t *testing.T) *tables.Tables {
	t.Helper()
	tb, err := tables.Default()
	require.NoError(t, err)
	return tb
}

// routes serves fixed bodies by path; anything else is a 404.
func routes(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
