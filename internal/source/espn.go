package source

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/fetcher"
	"github.com/sells-group/draftboard-cli/internal/model"
)

// ESPNSite reads the public ESPN site API: team list, per-team rosters and
// the scoreboard.
type ESPNSite struct {
	fetcher fetcher.Fetcher
	baseURL string
}

// NewESPNSite creates a client rooted at baseURL, e.g.
// https://site.api.espn.com/apis/site/v2/sports/football/nfl.
func NewESPNSite(f fetcher.Fetcher, baseURL string) *ESPNSite {
	return &ESPNSite{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

type espnTeamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team espnTeam `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

type espnTeam struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Location     string `json:"location"`
}

type espnRosterResponse struct {
	Athletes []struct {
		Position string        `json:"position"`
		Items    []espnAthlete `json:"items"`
	} `json:"athletes"`
}

type espnAthlete struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	DisplayName   string `json:"displayName"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Jersey        string `json:"jersey"`
	Age           int    `json:"age"`
	DisplayHeight string `json:"displayHeight"`
	DisplayWeight string `json:"displayWeight"`
	Experience    struct {
		Years int `json:"years"`
	} `json:"experience"`
	College struct {
		Name string `json:"name"`
	} `json:"college"`
	Status json.RawMessage `json:"status"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

// Teams returns the league's teams.
func (s *ESPNSite) Teams(ctx context.Context) ([]model.Team, error) {
	resp, err := fetcher.GetJSON[espnTeamsResponse](ctx, s.fetcher, s.baseURL+"/teams")
	if err != nil {
		return nil, eris.Wrap(err, "espn: fetch teams")
	}

	teams := resp.teams()
	if len(teams) == 0 {
		return nil, eris.New("espn: teams response has no teams")
	}
	return teams, nil
}

func (r *espnTeamsResponse) teams() []model.Team {
	if len(r.Sports) == 0 || len(r.Sports[0].Leagues) == 0 {
		return nil
	}
	entries := r.Sports[0].Leagues[0].Teams
	out := make([]model.Team, 0, len(entries))
	for _, e := range entries {
		if e.Team.ID == "" {
			continue
		}
		out = append(out, model.Team{
			ID:           e.Team.ID,
			Name:         e.Team.Name,
			Abbreviation: e.Team.Abbreviation,
			DisplayName:  e.Team.DisplayName,
			Location:     e.Team.Location,
		})
	}
	return out
}

// RosterGroup is one position group of a team roster. Position is the
// group label, used when an athlete carries no position of its own.
type RosterGroup struct {
	Position string
	Athletes []model.RawPlayer
}

// Roster returns the team's roster grouped as the API groups it.
func (s *ESPNSite) Roster(ctx context.Context, team model.Team) ([]RosterGroup, error) {
	url := s.baseURL + "/teams/" + team.ID + "/roster"
	resp, err := fetcher.GetJSON[espnRosterResponse](ctx, s.fetcher, url)
	if err != nil {
		return nil, eris.Wrapf(err, "espn: fetch roster for %s", team.Abbreviation)
	}

	groups := make([]RosterGroup, 0, len(resp.Athletes))
	for _, g := range resp.Athletes {
		group := RosterGroup{Position: g.Position, Athletes: make([]model.RawPlayer, 0, len(g.Items))}
		for _, a := range g.Items {
			group.Athletes = append(group.Athletes, model.RawPlayer{
				SourceID:    a.ID,
				Name:        a.FullName,
				DisplayName: a.DisplayName,
				FirstName:   a.FirstName,
				LastName:    a.LastName,
				Position:    a.Position.Abbreviation,
				Team:        team.Abbreviation,
				Jersey:      a.Jersey,
				Age:         a.Age,
				Height:      a.DisplayHeight,
				Weight:      a.DisplayWeight,
				Experience:  a.Experience.Years,
				College:     a.College.Name,
				Status:      athleteStatus(a.Status),
			})
		}
		groups = append(groups, group)
	}

	zap.L().Debug("espn: roster fetched",
		zap.String("team", team.Abbreviation),
		zap.Int("groups", len(groups)),
	)
	return groups, nil
}

// athleteStatus reads a roster status, which the API sends either as
// {"name": ..., "type": "active"} or {"type": {"name": ...}}. Shapes it
// does not recognize yield "".
func athleteStatus(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var plain string
	if json.Unmarshal(raw, &plain) == nil {
		return strings.TrimSpace(plain)
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return ""
	}
	if json.Unmarshal(fields["name"], &plain) == nil && strings.TrimSpace(plain) != "" {
		return strings.TrimSpace(plain)
	}

	typ := fields["type"]
	if json.Unmarshal(typ, &plain) == nil {
		return strings.TrimSpace(plain)
	}
	var nested struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(typ, &nested) == nil {
		return strings.TrimSpace(nested.Name)
	}
	return ""
}

// RawScoreboard returns the scoreboard document untouched.
func (s *ESPNSite) RawScoreboard(ctx context.Context) (json.RawMessage, error) {
	raw, err := fetcher.GetRaw(ctx, s.fetcher, s.baseURL+"/scoreboard")
	if err != nil {
		return nil, eris.Wrap(err, "espn: fetch scoreboard")
	}
	return raw, nil
}

// RawTeams returns the teams document untouched along with the number of
// teams it lists.
func (s *ESPNSite) RawTeams(ctx context.Context) (json.RawMessage, int, error) {
	raw, err := fetcher.GetRaw(ctx, s.fetcher, s.baseURL+"/teams")
	if err != nil {
		return nil, 0, eris.Wrap(err, "espn: fetch teams")
	}
	var parsed espnTeamsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return raw, 0, nil
	}
	return raw, len(parsed.teams()), nil
}
