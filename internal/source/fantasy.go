package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/fetcher"
	"github.com/sells-group/draftboard-cli/internal/model"
)

// RankingLimit is how many players each ranked source keeps per position.
const RankingLimit = 50

const fantasyFilterHeader = "X-Fantasy-Filter"

// slot is an ESPN fantasy lineup slot.
type slot struct {
	Position string
	ID       int
}

var fantasySlots = []slot{
	{"QB", 1},
	{"RB", 2},
	{"WR", 3},
	{"TE", 4},
	{"K", 5},
	{"D/ST", 16},
}

// TeamResolver maps an ESPN pro team id to an abbreviation.
type TeamResolver interface {
	ProTeam(id int) string
}

// ESPNFantasy reads ranked players per position from the ESPN fantasy
// API, ordered by percent owned.
type ESPNFantasy struct {
	fetcher fetcher.Fetcher
	baseURL string
	season  int
	teams   TeamResolver
}

// NewESPNFantasy creates a client rooted at baseURL, e.g.
// https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl.
func NewESPNFantasy(f fetcher.Fetcher, baseURL string, season int, teams TeamResolver) *ESPNFantasy {
	return &ESPNFantasy{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		season:  season,
		teams:   teams,
	}
}

type fantasyPlayersResponse struct {
	Players []struct {
		Player struct {
			ID        int    `json:"id"`
			FullName  string `json:"fullName"`
			ProTeamID int    `json:"proTeamId"`
		} `json:"player"`
	} `json:"players"`
}

// Name implements Source.
func (s *ESPNFantasy) Name() string { return NameESPNFantasy }

// Fetch implements Source. A position whose request fails contributes
// nothing; the source fails only when every position does.
func (s *ESPNFantasy) Fetch(ctx context.Context) ([]model.RawPlayer, error) {
	url := fmt.Sprintf("%s/seasons/%d/players?scoringPeriodId=0&view=kona_player_info", s.baseURL, s.season)

	var out []model.RawPlayer
	var lastErr error
	for _, sl := range fantasySlots {
		players, err := s.fetchSlot(ctx, url, sl)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "espn-fantasy: cancelled")
			}
			zap.L().Warn("espn-fantasy: position failed, skipping",
				zap.String("position", sl.Position),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		out = append(out, players...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, eris.Wrap(lastErr, "espn-fantasy: no position succeeded")
	}
	return out, nil
}

func (s *ESPNFantasy) fetchSlot(ctx context.Context, url string, sl slot) ([]model.RawPlayer, error) {
	filter, err := fantasyFilter(sl.ID)
	if err != nil {
		return nil, err
	}

	resp, err := fetcher.GetJSON[fantasyPlayersResponse](ctx, s.fetcher, url, fetcher.WithHeader(fantasyFilterHeader, filter))
	if err != nil {
		return nil, eris.Wrapf(err, "espn-fantasy: fetch %s", sl.Position)
	}

	entries := resp.Players
	if len(entries) > RankingLimit {
		entries = entries[:RankingLimit]
	}

	out := make([]model.RawPlayer, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Player.FullName) == "" {
			continue
		}
		out = append(out, model.RawPlayer{
			SourceID: fmt.Sprint(e.Player.ID),
			Name:     e.Player.FullName,
			Position: sl.Position,
			Team:     s.teams.ProTeam(e.Player.ProTeamID),
			Rank:     len(out) + 1,
		})
	}

	zap.L().Debug("espn-fantasy: position fetched",
		zap.String("position", sl.Position),
		zap.Int("players", len(out)),
	)
	return out, nil
}

// fantasyFilter builds the X-Fantasy-Filter header for one slot.
func fantasyFilter(slotID int) (string, error) {
	type sortSpec struct {
		SortPriority int  `json:"sortPriority"`
		SortAsc      bool `json:"sortAsc"`
	}
	type filterSpec struct {
		FilterSlotIDs struct {
			Value []int `json:"value"`
		} `json:"filterSlotIds"`
		Limit         int      `json:"limit"`
		SortPercOwned sortSpec `json:"sortPercOwned"`
	}

	var f filterSpec
	f.FilterSlotIDs.Value = []int{slotID}
	f.Limit = RankingLimit
	f.SortPercOwned = sortSpec{SortPriority: 1, SortAsc: false}

	data, err := json.Marshal(map[string]filterSpec{"players": f})
	if err != nil {
		return "", eris.Wrap(err, "espn-fantasy: encode filter")
	}
	return string(data), nil
}
