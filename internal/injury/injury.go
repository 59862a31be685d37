// Package injury synthesizes injury risk for players from a position base
// rate, a known-history table, and age.
package injury

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

const (
	// MinRisk and MaxRisk bound every risk score.
	MinRisk = 0.05
	MaxRisk = 0.9

	// MaxGamesInjured caps games lost in the current season.
	MaxGamesInjured = 8

	// maxHistoryModifier caps the risk added by prior-season games missed.
	maxHistoryModifier = 0.5
	historySeasonGames = 17.0

	minorInjuryRisk      = 0.1
	minorInjuryMaxGames  = 2
	crossAdjustThreshold = 0.3
	crossAdjustWeight    = 0.3
)

// Rand is the subset of *math/rand/v2.Rand the synthesizer draws from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Options tunes the no-history branch.
type Options struct {
	// MinorInjuryRate is the probability that a player without a known
	// history is assigned one minor injury. Zero disables the branch.
	MinorInjuryRate float64
}

// Synthesizer produces Injury values and couples them back into Stats.
type Synthesizer struct {
	tables *tables.Tables
	opts   Options
	rng    Rand
}

// New creates a Synthesizer.
func New(tb *tables.Tables, opts Options, rng Rand) (*Synthesizer, error) {
	if tb == nil || rng == nil {
		return nil, eris.New("injury: tables and random source are required")
	}
	if opts.MinorInjuryRate < 0 || opts.MinorInjuryRate > 1 {
		return nil, eris.Errorf("injury: minor injury rate %.2f outside [0,1]", opts.MinorInjuryRate)
	}
	return &Synthesizer{tables: tb, opts: opts, rng: rng}, nil
}

// BaseRisk returns the position's base injury risk, or the table default.
func (s *Synthesizer) BaseRisk(position string) float64 {
	if r, ok := s.tables.PositionRisk(position); ok {
		return r
	}
	return s.tables.DefaultRisk()
}

// Assess computes the injury record for a player.
func (s *Synthesizer) Assess(p *model.Player) model.Injury {
	base := s.BaseRisk(string(p.Position))

	if rec, ok := s.tables.InjuryHistory(p.Name); ok {
		modifier := math.Min(maxHistoryModifier, float64(rec.GamesMissed)/historySeasonGames)
		return model.Injury{
			GamesInjured:  min(rec.GamesMissed, MaxGamesInjured),
			InjuryHistory: rec.Injuries,
			RiskScore:     clampRisk(math.Min(MaxRisk, base+modifier)),
		}
	}

	out := model.Injury{InjuryHistory: []string{}}
	risk := base
	if age := p.Age(); age > 0 {
		risk += AgeAdjustment(age)
	} else {
		risk += -0.1 + 0.2*s.rng.Float64()
	}

	if s.opts.MinorInjuryRate > 0 && s.rng.Float64() < s.opts.MinorInjuryRate {
		if common := s.tables.CommonInjuries(); len(common) > 0 {
			out.InjuryHistory = []string{common[s.rng.IntN(len(common))]}
			out.GamesInjured = s.rng.IntN(minorInjuryMaxGames + 1)
			risk += minorInjuryRisk
		}
	}

	out.RiskScore = clampRisk(risk)
	return out
}

// AgeAdjustment is the risk added for veterans and very young players.
func AgeAdjustment(age int) float64 {
	switch {
	case age > 30:
		return 0.10
	case age > 28:
		return 0.05
	case age < 23:
		return 0.05
	default:
		return 0
	}
}

// Apply assesses the player, stores the result, and discounts consistency
// for high-risk players.
func (s *Synthesizer) Apply(p *model.Player) {
	p.Injury = s.Assess(p)
	p.Stats.Consistency = AdjustConsistency(p.Stats.Consistency, p.Injury.RiskScore)
}

// AdjustConsistency lowers consistency when risk exceeds 0.3.
func AdjustConsistency(consistency, risk float64) float64 {
	if risk > crossAdjustThreshold {
		return consistency * (1 - risk*crossAdjustWeight)
	}
	return consistency
}

func clampRisk(r float64) float64 {
	return math.Max(MinRisk, math.Min(MaxRisk, r))
}
