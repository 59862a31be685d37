// Package pipeline runs one dataset generation: collect raw players,
// normalize them, synthesize projections and injury risk, and write the
// result.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/injury"
	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/output"
	"github.com/sells-group/draftboard-cli/internal/projection"
	"github.com/sells-group/draftboard-cli/internal/roster"
	"github.com/sells-group/draftboard-cli/internal/source"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

// RosterSource lists teams and their rosters.
type RosterSource interface {
	Teams(ctx context.Context) ([]model.Team, error)
	Roster(ctx context.Context, team model.Team) ([]source.RosterGroup, error)
}

// Ranker returns ranked players from the first productive source and
// that source's name.
type Ranker interface {
	Fetch(ctx context.Context) ([]model.RawPlayer, string, error)
}

// Options configures one run.
type Options struct {
	Mode Mode
	// Policy overrides the mode's default projection policy when set.
	Policy           projection.Policy
	SeasonGames      int
	Season           int
	Seed             uint64
	MinorInjuryRate  float64
	MinRosterPlayers int
}

// Result is the outcome of a run.
type Result struct {
	RunID   string
	Policy  projection.Policy
	Players []model.Player
	Summary model.Summary
	Paths   output.Paths
}

// Generator wires the sources, the synthesizers and the writer.
type Generator struct {
	tables  *tables.Tables
	rosters RosterSource
	ranked  Ranker
	catalog source.Source
	writer  *output.Writer
	now     func() time.Time
}

// NewGenerator creates a Generator. rosters and ranked may be nil when the
// corresponding modes are not used.
func NewGenerator(tb *tables.Tables, rosters RosterSource, ranked Ranker, catalog source.Source, writer *output.Writer) *Generator {
	return &Generator{
		tables:  tb,
		rosters: rosters,
		ranked:  ranked,
		catalog: catalog,
		writer:  writer,
		now:     time.Now,
	}
}

// rankedPlayer pairs a normalized player with its rank inside its position.
type rankedPlayer struct {
	player model.Player
	rank   int
}

// Run executes one generation pass and writes the dataset.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID), zap.String("mode", string(opts.Mode)))

	policy := opts.Policy
	if policy == "" {
		policy = opts.Mode.DefaultPolicy()
	}

	rng := NewRand(opts.Seed)
	proj, err := projection.New(g.tables, policy, opts.SeasonGames, rng)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: projection")
	}
	inj, err := injury.New(g.tables, injury.Options{MinorInjuryRate: opts.MinorInjuryRate}, rng)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: injury")
	}

	log.Info("pipeline: starting generation",
		zap.String("policy", string(policy)),
		zap.Int("season_games", opts.SeasonGames),
		zap.Uint64("seed", opts.Seed),
	)

	var (
		collected  []rankedPlayer
		dataSource string
	)
	err = phase(log, "collect", func() error {
		var cErr error
		collected, dataSource, cErr = g.collect(ctx, opts)
		return cErr
	})
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, 0, len(collected))
	err = phase(log, "synthesize", func() error {
		for _, rp := range collected {
			if ctx.Err() != nil {
				return eris.Wrap(ctx.Err(), "pipeline: synthesize")
			}
			p := rp.player
			p.Stats = proj.Project(&p, rp.rank)
			inj.Apply(&p)
			players = append(players, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.AssignIDs(players)
	output.Sort(players)
	summary := output.Summarize(players, dataSource, g.now())

	var paths output.Paths
	err = phase(log, "write", func() error {
		var wErr error
		paths, wErr = g.writer.Write(players, summary)
		return wErr
	})
	if err != nil {
		return nil, err
	}

	log.Info("pipeline: generation complete",
		zap.Int("players", len(players)),
		zap.String("data_source", dataSource),
	)
	return &Result{RunID: runID, Policy: policy, Players: players, Summary: summary, Paths: paths}, nil
}

// phase times fn and logs its outcome.
func phase(log *zap.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", duration), zap.Error(err))
		return err
	}
	log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", duration))
	return nil
}

func (g *Generator) collect(ctx context.Context, opts Options) ([]rankedPlayer, string, error) {
	switch opts.Mode {
	case ModeRosters:
		players, err := g.collectRosters(ctx, opts.MinRosterPlayers)
		return players, rostersDataSource, err
	case ModeRankings:
		if g.ranked == nil {
			return nil, "", eris.New("pipeline: rankings mode needs a ranked source")
		}
		raws, name, err := g.ranked.Fetch(ctx)
		if err != nil {
			return nil, "", eris.Wrap(err, "pipeline: ranked sources")
		}
		return normalizeRanked(raws), rankedDataSource(name, opts.Season), nil
	case ModeCatalog:
		raws, err := g.catalog.Fetch(ctx)
		if err != nil {
			return nil, "", eris.Wrap(err, "pipeline: catalog")
		}
		return normalizeRanked(raws), catalogDataSource(opts.Season), nil
	}
	return nil, "", eris.Errorf("pipeline: unknown mode %q", opts.Mode)
}

// collectRosters walks every team roster. A team whose roster cannot be
// fetched contributes nothing. Free agents are added when the walk comes
// up short of minPlayers.
func (g *Generator) collectRosters(ctx context.Context, minPlayers int) ([]rankedPlayer, error) {
	if g.rosters == nil {
		return nil, eris.New("pipeline: rosters mode needs a roster source")
	}

	teams, err := g.rosters.Teams(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "pipeline: collect rosters")
		}
		zap.L().Warn("pipeline: team list unavailable, using fallback teams", zap.Error(err))
		teams = g.tables.FallbackTeams()
	}

	var players []model.Player
	statuses := make(map[string]int)
	for _, team := range teams {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "pipeline: collect rosters")
		}
		groups, err := g.rosters.Roster(ctx, team)
		if err != nil {
			zap.L().Warn("pipeline: roster unavailable, skipping team",
				zap.String("team", team.Abbreviation),
				zap.Error(err),
			)
			continue
		}
		kept := 0
		for _, group := range groups {
			for _, raw := range group.Athletes {
				p, ok := roster.Normalize(raw, group.Position)
				if !ok {
					continue
				}
				players = append(players, p)
				statuses[roster.Status(raw)]++
				kept++
			}
		}
		zap.L().Debug("pipeline: roster collected", zap.String("team", team.Abbreviation), zap.Int("players", kept))
	}

	players = append(players, roster.DefenseUnits(teams)...)

	if len(players) < minPlayers {
		zap.L().Info("pipeline: adding free agents",
			zap.Int("players", len(players)),
			zap.Int("min_players", minPlayers),
		)
		players = append(players, roster.FreeAgents(g.tables.FreeAgents())...)
	}

	zap.L().Info("pipeline: rosters collected",
		zap.Int("teams", len(teams)),
		zap.Int("players", len(players)),
		zap.Any("statuses", statuses),
	)
	return withRanks(players, nil), nil
}

// normalizeRanked normalizes ranked records, keeping each record's rank.
func normalizeRanked(raws []model.RawPlayer) []rankedPlayer {
	players := make([]model.Player, 0, len(raws))
	ranks := make([]int, 0, len(raws))
	for _, raw := range raws {
		p, ok := roster.Normalize(raw, "")
		if !ok {
			zap.L().Debug("pipeline: dropping non-fantasy record",
				zap.String("name", raw.Name),
				zap.String("position", raw.Position),
			)
			continue
		}
		players = append(players, p)
		ranks = append(ranks, raw.Rank)
	}
	return withRanks(players, ranks)
}

// withRanks pairs players with ranks. Missing or non-positive ranks are
// filled with the player's order of appearance within its position.
func withRanks(players []model.Player, ranks []int) []rankedPlayer {
	seen := make(map[model.Position]int)
	out := make([]rankedPlayer, len(players))
	for i, p := range players {
		seen[p.Position]++
		rank := seen[p.Position]
		if i < len(ranks) && ranks[i] > 0 {
			rank = ranks[i]
		}
		out[i] = rankedPlayer{player: p, rank: rank}
	}
	return out
}
