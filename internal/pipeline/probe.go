package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/output"
)

// Probe snapshot file names.
const (
	ESPNSnapshotFile     = "espn_raw_data.json"
	SportsDBSnapshotFile = "sportsdb_sample.json"

	probePlayerName = "Tom Brady"
)

// ScoreboardSource returns raw ESPN documents.
type ScoreboardSource interface {
	RawScoreboard(ctx context.Context) (json.RawMessage, error)
	RawTeams(ctx context.Context) (json.RawMessage, int, error)
}

// PlayerSearcher returns a raw player search result.
type PlayerSearcher interface {
	SearchPlayers(ctx context.Context, name string) (json.RawMessage, error)
}

// ProbeResult reports which live source answered.
type ProbeResult struct {
	Live   bool
	Source string
	Path   string
	Teams  int
}

// Prober checks whether live data is reachable and saves what it gets.
type Prober struct {
	espn     ScoreboardSource
	sportsDB PlayerSearcher
	dir      string
	now      func() time.Time
}

// NewProber creates a Prober writing snapshots into dir.
func NewProber(espn ScoreboardSource, sportsDB PlayerSearcher, dir string) *Prober {
	return &Prober{espn: espn, sportsDB: sportsDB, dir: dir, now: time.Now}
}

type espnSnapshot struct {
	Scoreboard json.RawMessage `json:"scoreboard"`
	Teams      json.RawMessage `json:"teams"`
	Timestamp  string          `json:"timestamp"`
}

// Run tries ESPN first, then TheSportsDB. Unreachable sources are not an
// error; only a failed snapshot write is.
func (p *Prober) Run(ctx context.Context) (ProbeResult, error) {
	if res, ok, err := p.probeESPN(ctx); ok || err != nil {
		return res, err
	}
	if res, ok, err := p.probeSportsDB(ctx); ok || err != nil {
		return res, err
	}
	zap.L().Warn("probe: no live source reachable")
	return ProbeResult{}, nil
}

func (p *Prober) probeESPN(ctx context.Context) (ProbeResult, bool, error) {
	board, err := p.espn.RawScoreboard(ctx)
	if err != nil {
		zap.L().Warn("probe: espn scoreboard unavailable", zap.Error(err))
		return ProbeResult{}, false, nil
	}
	teams, n, err := p.espn.RawTeams(ctx)
	if err != nil {
		zap.L().Warn("probe: espn teams unavailable", zap.Error(err))
		return ProbeResult{}, false, nil
	}

	path := filepath.Join(p.dir, ESPNSnapshotFile)
	snap := espnSnapshot{Scoreboard: board, Teams: teams, Timestamp: p.now().Format(model.SummaryTimeFormat)}
	if err := output.WriteJSON(path, snap); err != nil {
		return ProbeResult{}, false, err
	}
	zap.L().Info("probe: saved espn snapshot", zap.String("path", path), zap.Int("teams", n))
	return ProbeResult{Live: true, Source: "espn", Path: path, Teams: n}, true, nil
}

func (p *Prober) probeSportsDB(ctx context.Context) (ProbeResult, bool, error) {
	raw, err := p.sportsDB.SearchPlayers(ctx, probePlayerName)
	if err != nil {
		zap.L().Warn("probe: sportsdb unavailable", zap.Error(err))
		return ProbeResult{}, false, nil
	}

	path := filepath.Join(p.dir, SportsDBSnapshotFile)
	if err := output.WriteJSON(path, raw); err != nil {
		return ProbeResult{}, false, err
	}
	zap.L().Info("probe: saved sportsdb snapshot", zap.String("path", path))
	return ProbeResult{Live: true, Source: "sportsdb", Path: path}, true, nil
}
