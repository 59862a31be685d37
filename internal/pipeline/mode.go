package pipeline

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/draftboard-cli/internal/projection"
	"github.com/sells-group/draftboard-cli/internal/source"
)

// Mode selects where a generation run gets its players.
type Mode string

const (
	// ModeRosters walks every team roster on the ESPN site API.
	ModeRosters Mode = "rosters"
	// ModeRankings uses the first ranked source that answers.
	ModeRankings Mode = "rankings"
	// ModeCatalog uses the literal catalog only.
	ModeCatalog Mode = "catalog"
)

// Modes lists the valid modes.
var Modes = []Mode{ModeRosters, ModeRankings, ModeCatalog}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeRosters, ModeRankings, ModeCatalog:
		return m, nil
	}
	return "", eris.Errorf("pipeline: unknown mode %q (valid: rosters, rankings, catalog)", s)
}

// DefaultPolicy is the projection policy a mode uses unless overridden.
// Roster walks carry experience; ranked lists carry rank.
func (m Mode) DefaultPolicy() projection.Policy {
	if m == ModeRosters {
		return projection.PolicyExperience
	}
	return projection.PolicyRank
}

// Data source descriptions written to the summary.
const rostersDataSource = "ESPN API - Complete NFL Rosters with Fantasy Projections"

var rankedDataSources = map[string]string{
	source.NameESPNFantasy: "ESPN Fantasy API - Player Rankings",
	source.NameFantasyPros: "FantasyPros Expert Consensus Rankings",
}

func catalogDataSource(season int) string {
	return fmt.Sprintf("Comprehensive NFL Player Database - %d Season", season)
}

func rankedDataSource(name string, season int) string {
	if d, ok := rankedDataSources[name]; ok {
		return d
	}
	return catalogDataSource(season)
}

// NewRand returns the run's random source. A non-zero seed gives a
// reproducible stream.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
