package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/draftboard-cli/internal/config"
	"github.com/sells-group/draftboard-cli/internal/fetcher"
	"github.com/sells-group/draftboard-cli/internal/output"
	"github.com/sells-group/draftboard-cli/internal/pipeline"
	"github.com/sells-group/draftboard-cli/internal/resilience"
	"github.com/sells-group/draftboard-cli/internal/source"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

// fetchers holds one HTTP client per courtesy delay: JSON APIs and
// scraped pages are paced differently.
type fetchers struct {
	api    *fetcher.HTTPFetcher
	scrape *fetcher.HTTPFetcher
}

func newFetchers(c *config.Config) fetchers {
	base := fetcher.HTTPOptions{
		UserAgent: c.Fetch.UserAgent,
		Timeout:   time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		Retry:     resilience.FromFetchConfig(c.Fetch.MaxAttempts, c.Fetch.InitialBackoffMs),
	}
	api := base
	api.Throttle = time.Duration(c.Fetch.ThrottleMs) * time.Millisecond
	scrape := base
	scrape.Throttle = time.Duration(c.Fetch.ScrapeThrottleMs) * time.Millisecond

	return fetchers{
		api:    fetcher.NewHTTPFetcher(api),
		scrape: fetcher.NewHTTPFetcher(scrape),
	}
}

// loadTables reads the reference tables and applies the configured
// default risk.
func loadTables(c *config.Config) (*tables.Tables, error) {
	tb, err := tables.Load(c.Tables.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load tables")
	}
	if c.Synthesis.DefaultRisk != tb.DefaultRisk() {
		tb, err = tb.WithDefaultRisk(c.Synthesis.DefaultRisk)
		if err != nil {
			return nil, eris.Wrap(err, "apply default risk")
		}
	}
	return tb, nil
}

// newGenerator wires every source for the generate command. The ranked
// chain tries the ESPN fantasy API, then FantasyPros, then the catalog.
func newGenerator(c *config.Config, tb *tables.Tables, outDir string) *pipeline.Generator {
	f := newFetchers(c)
	catalog := source.NewCatalog(tb)

	ranked := source.NewChain(
		source.NewESPNFantasy(f.api, c.ESPN.FantasyBaseURL, c.ESPN.Season, tb),
		source.NewFantasyPros(f.scrape, c.FantasyPros.BaseURL),
		catalog,
	)

	return pipeline.NewGenerator(
		tb,
		source.NewESPNSite(f.api, c.ESPN.SiteBaseURL),
		ranked,
		catalog,
		output.NewWriter(outDir, c.Output.PlayersFile, c.Output.SummaryFile),
	)
}
