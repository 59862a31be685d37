// Package tables loads the constant reference tables used by the
// projection and injury models and by the literal fallback sources.
package tables

import (
	_ "embed"
	"os"
	"slices"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/draftboard-cli/internal/model"
)

//go:embed tables.yaml
var defaultTables []byte

// Bounds are the season-total limits and mean for one position.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	Avg float64 `yaml:"avg"`
}

// Tier maps an inclusive rank range to a season-total range.
type Tier struct {
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// Contains reports whether rank falls inside the tier.
func (t Tier) Contains(rank int) bool {
	return rank >= t.Start && rank <= t.End
}

// InjuryRecord is a player's prior-season injury history.
type InjuryRecord struct {
	Injuries    []string `yaml:"injuries"`
	GamesMissed int      `yaml:"games_missed"`
}

// Entry is a literal player entry.
type Entry struct {
	Name     string `yaml:"name"`
	Position string `yaml:"position,omitempty"`
	Team     string `yaml:"team"`
}

// PositionList is an ordered, ranked list of literal entries for one position.
type PositionList struct {
	Position string  `yaml:"position"`
	Players  []Entry `yaml:"players"`
}

type teamEntry struct {
	ID           string `yaml:"id"`
	Abbreviation string `yaml:"abbreviation"`
	Name         string `yaml:"name"`
}

type document struct {
	DefaultRisk      float64                 `yaml:"default_risk"`
	PositionRisk     map[string]float64      `yaml:"position_risk"`
	ProjectionBounds map[string]Bounds       `yaml:"projection_bounds"`
	ProjectionTiers  map[string][]Tier       `yaml:"projection_tiers"`
	InjuryHistory    map[string]InjuryRecord `yaml:"injury_history"`
	CommonInjuries   []string                `yaml:"common_injuries"`
	ESPNProTeams     map[int]string          `yaml:"espn_pro_teams"`
	FallbackTeams    []teamEntry             `yaml:"fallback_teams"`
	FreeAgents       []Entry                 `yaml:"free_agents"`
	Catalog          []PositionList          `yaml:"catalog"`
}

// Tables is a read-only view over the reference data. It is safe for
// concurrent use because nothing mutates it after Parse returns.
type Tables struct {
	doc document
}

// Default returns the tables embedded in the binary.
func Default() (*Tables, error) {
	return Parse(defaultTables)
}

// Load reads tables from path, or returns the embedded tables when path
// is empty.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tables: read %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates YAML table data.
func Parse(data []byte) (*Tables, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "tables: parse")
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	for pos, tiers := range doc.ProjectionTiers {
		slices.SortStableFunc(tiers, func(a, b Tier) int { return a.Start - b.Start })
		doc.ProjectionTiers[pos] = tiers
	}
	return &Tables{doc: doc}, nil
}

func (d *document) validate() error {
	if d.DefaultRisk < 0 || d.DefaultRisk > 1 {
		return eris.Errorf("tables: default_risk %.2f outside [0,1]", d.DefaultRisk)
	}
	for pos, r := range d.PositionRisk {
		if r < 0 || r > 1 {
			return eris.Errorf("tables: position_risk[%s] %.2f outside [0,1]", pos, r)
		}
	}
	for pos, b := range d.ProjectionBounds {
		if b.Min > b.Max {
			return eris.Errorf("tables: projection_bounds[%s] min %.0f > max %.0f", pos, b.Min, b.Max)
		}
	}
	for pos, tiers := range d.ProjectionTiers {
		for i, t := range tiers {
			if t.Start < 1 || t.Start > t.End {
				return eris.Errorf("tables: projection_tiers[%s][%d] bad rank range %d-%d", pos, i, t.Start, t.End)
			}
			if t.Min > t.Max {
				return eris.Errorf("tables: projection_tiers[%s][%d] min %.0f > max %.0f", pos, i, t.Min, t.Max)
			}
		}
	}
	for name, rec := range d.InjuryHistory {
		if len(rec.Injuries) == 0 {
			return eris.Errorf("tables: injury_history[%q] has no injuries", name)
		}
		if rec.GamesMissed < 0 {
			return eris.Errorf("tables: injury_history[%q] negative games_missed", name)
		}
	}
	return nil
}

// DefaultRisk is the base injury risk for positions absent from the
// position risk table.
func (t *Tables) DefaultRisk() float64 { return t.doc.DefaultRisk }

// WithDefaultRisk returns a copy whose default risk is r. The lookup maps
// are shared with the receiver.
func (t *Tables) WithDefaultRisk(r float64) (*Tables, error) {
	doc := t.doc
	doc.DefaultRisk = r
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &Tables{doc: doc}, nil
}

// PositionRisk returns the base injury risk for a position tag.
func (t *Tables) PositionRisk(pos string) (float64, bool) {
	r, ok := t.doc.PositionRisk[pos]
	return r, ok
}

// ProjectionBounds returns the experience-scaled bounds for a position tag.
func (t *Tables) ProjectionBounds(pos string) (Bounds, bool) {
	b, ok := t.doc.ProjectionBounds[pos]
	return b, ok
}

// ProjectionTiers returns the rank tiers for a position tag, ordered by
// starting rank.
func (t *Tables) ProjectionTiers(pos string) []Tier {
	return slices.Clone(t.doc.ProjectionTiers[pos])
}

// InjuryHistory returns the known injury record for an exact player name.
func (t *Tables) InjuryHistory(name string) (InjuryRecord, bool) {
	rec, ok := t.doc.InjuryHistory[name]
	if !ok {
		return InjuryRecord{}, false
	}
	rec.Injuries = slices.Clone(rec.Injuries)
	return rec, true
}

// CommonInjuries returns the injury types used for minor synthesized injuries.
func (t *Tables) CommonInjuries() []string {
	return slices.Clone(t.doc.CommonInjuries)
}

// ProTeam maps an ESPN fantasy proTeamId to a team abbreviation, or
// model.FreeAgentTeam when the id is unknown.
func (t *Tables) ProTeam(id int) string {
	if abbr, ok := t.doc.ESPNProTeams[id]; ok {
		return abbr
	}
	return model.FreeAgentTeam
}

// FallbackTeams returns the literal NFL team list.
func (t *Tables) FallbackTeams() []model.Team {
	teams := make([]model.Team, 0, len(t.doc.FallbackTeams))
	for _, e := range t.doc.FallbackTeams {
		teams = append(teams, model.Team{
			ID:           e.ID,
			Name:         e.Name,
			Abbreviation: e.Abbreviation,
		})
	}
	return teams
}

// FreeAgents returns the literal free-agent entries.
func (t *Tables) FreeAgents() []Entry {
	return slices.Clone(t.doc.FreeAgents)
}

// Catalog returns the literal ranked player lists, in position order.
func (t *Tables) Catalog() []PositionList {
	out := make([]PositionList, 0, len(t.doc.Catalog))
	for _, pl := range t.doc.Catalog {
		out = append(out, PositionList{Position: pl.Position, Players: slices.Clone(pl.Players)})
	}
	return out
}
