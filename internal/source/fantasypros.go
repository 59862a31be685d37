package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/fetcher"
	"github.com/sells-group/draftboard-cli/internal/model"
)

var (
	// rankingPages maps the page slug to the position tag it ranks.
	rankingPages = []struct {
		Slug     string
		Position string
	}{
		{"qb", "QB"},
		{"rb", "RB"},
		{"wr", "WR"},
		{"te", "TE"},
		{"k", "K"},
		{"dst", "DST"},
	}

	rankingHeaderRe = regexp.MustCompile(`(?i)player|rank`)
	trailingTeamRe  = regexp.MustCompile(`\s+([A-Z]{2,3})$`)
	teamCodeRe      = regexp.MustCompile(`\b([A-Z]{2,3})\b`)

	// nameSuffixes look like team codes but belong to the player name.
	nameSuffixes = map[string]bool{"II": true, "III": true, "IV": true, "JR": true, "SR": true}
)

// FantasyPros scrapes the expert consensus ranking pages.
type FantasyPros struct {
	fetcher fetcher.Fetcher
	baseURL string
}

// NewFantasyPros creates a scraper rooted at baseURL, e.g.
// https://www.fantasypros.com/nfl/rankings.
func NewFantasyPros(f fetcher.Fetcher, baseURL string) *FantasyPros {
	return &FantasyPros{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements Source.
func (s *FantasyPros) Name() string { return NameFantasyPros }

// Fetch implements Source. A page that fails to load or has no ranking
// table contributes nothing.
func (s *FantasyPros) Fetch(ctx context.Context) ([]model.RawPlayer, error) {
	var out []model.RawPlayer
	var lastErr error
	for _, page := range rankingPages {
		players, err := s.scrapePage(ctx, page.Slug, page.Position)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "fantasypros: cancelled")
			}
			zap.L().Warn("fantasypros: page failed, skipping",
				zap.String("position", page.Position),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		out = append(out, players...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, eris.Wrap(lastErr, "fantasypros: no page succeeded")
	}
	return out, nil
}

func (s *FantasyPros) scrapePage(ctx context.Context, slug, position string) ([]model.RawPlayer, error) {
	url := s.baseURL + "/" + slug + ".php"
	body, err := s.fetcher.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "fantasypros: fetch %s", slug)
	}
	defer body.Close() //nolint:errcheck

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, eris.Wrapf(err, "fantasypros: parse %s", slug)
	}

	table := findRankingTable(doc)
	if table.Length() == 0 {
		return nil, eris.Errorf("fantasypros: no ranking table on %s", url)
	}
	return ParseRankingTable(table, position), nil
}

func findRankingTable(doc *goquery.Document) *goquery.Selection {
	if t := doc.Find("table#ranking-table").First(); t.Length() > 0 {
		return t
	}
	if t := doc.Find("table.rankings-table").First(); t.Length() > 0 {
		return t
	}
	return doc.Find("table").FilterFunction(func(_ int, t *goquery.Selection) bool {
		return t.Find("th").FilterFunction(func(_ int, th *goquery.Selection) bool {
			return rankingHeaderRe.MatchString(th.Text())
		}).Length() > 0
	}).First()
}

// ParseRankingTable reads the first RankingLimit data rows of a ranking
// table. Rows without a player cell or a name are skipped; rank counts
// only the rows kept.
func ParseRankingTable(table *goquery.Selection, position string) []model.RawPlayer {
	var out []model.RawPlayer
	table.Find("tr").Slice(1, goquery.ToEnd).EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= RankingLimit {
			return false
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			zap.L().Debug("fantasypros: skipping short row", zap.String("position", position), zap.Int("row", i+1))
			return true
		}

		name, team := playerCell(cells.Eq(1))
		if name == "" {
			zap.L().Debug("fantasypros: skipping row without name", zap.String("position", position), zap.Int("row", i+1))
			return true
		}
		out = append(out, model.RawPlayer{
			Name:     name,
			Position: position,
			Team:     team,
			Rank:     len(out) + 1,
		})
		return true
	})
	return out
}

// playerCell extracts the player name and team code from a ranking cell.
// The name comes from the cell's link, else the cell text without a
// trailing team code. The team is the first 2-3 letter capital token
// outside the name that is not a name suffix, else FA.
func playerCell(cell *goquery.Selection) (name, team string) {
	text := strings.Join(strings.Fields(cell.Text()), " ")

	if link := cell.Find("a").First(); link.Length() > 0 {
		name = strings.TrimSpace(link.Text())
	}
	if name == "" {
		name = stripTrailingTeam(text)
	}

	rest := strings.Replace(text, name, "", 1)
	for _, m := range teamCodeRe.FindAllStringSubmatch(rest, -1) {
		if !nameSuffixes[m[1]] {
			return name, m[1]
		}
	}
	return name, model.FreeAgentTeam
}

// stripTrailingTeam drops a trailing team code unless it is a name suffix
// such as III.
func stripTrailingTeam(text string) string {
	m := trailingTeamRe.FindStringSubmatchIndex(text)
	if m == nil || nameSuffixes[text[m[2]:m[3]]] {
		return text
	}
	return text[:m[0]]
}
