package source

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/draftboard-cli/internal/fetcher"
)

// SportsDB reads TheSportsDB free JSON API.
type SportsDB struct {
	fetcher fetcher.Fetcher
	baseURL string
}

// NewSportsDB creates a client rooted at baseURL, e.g.
// https://www.thesportsdb.com/api/v1/json/3.
func NewSportsDB(f fetcher.Fetcher, baseURL string) *SportsDB {
	return &SportsDB{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// SearchPlayers returns the raw player search result for name.
func (s *SportsDB) SearchPlayers(ctx context.Context, name string) (json.RawMessage, error) {
	u := s.baseURL + "/searchplayers.php?p=" + url.PathEscape(name)
	raw, err := fetcher.GetRaw(ctx, s.fetcher, u)
	if err != nil {
		return nil, eris.Wrap(err, "sportsdb: search players")
	}
	return raw, nil
}
