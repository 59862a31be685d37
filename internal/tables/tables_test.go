package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/draftboard-cli/internal/model"
)

func TestDefault(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	assert.InDelta(t, 0.20, tb.DefaultRisk(), 1e-9)

	risk := map[string]float64{"QB": 0.20, "RB": 0.35, "WR": 0.25, "TE": 0.30, "K": 0.05, "PK": 0.05, "DEF": 0.15}
	for pos, want := range risk {
		got, ok := tb.PositionRisk(pos)
		require.True(t, ok, pos)
		assert.InDelta(t, want, got, 1e-9, pos)
	}
	_, ok := tb.PositionRisk("LB")
	assert.False(t, ok)

	b, ok := tb.ProjectionBounds("QB")
	require.True(t, ok)
	assert.Equal(t, Bounds{Min: 150, Max: 400, Avg: 250}, b)

	tiers := tb.ProjectionTiers("K")
	require.Len(t, tiers, 3)
	assert.Equal(t, Tier{Start: 1, End: 10, Min: 130, Max: 160}, tiers[0])
	assert.Empty(t, tb.ProjectionTiers("LB"))
}

func TestDefault_InjuryHistory(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	rec, ok := tb.InjuryHistory("Daniel Jones")
	require.True(t, ok)
	assert.Equal(t, []string{"neck", "knee"}, rec.Injuries)
	assert.Equal(t, 6, rec.GamesMissed)

	rec, ok = tb.InjuryHistory("J.K. Dobbins")
	require.True(t, ok)
	assert.Equal(t, 17, rec.GamesMissed)

	_, ok = tb.InjuryHistory("daniel jones")
	assert.False(t, ok, "lookup is exact")
}

func TestInjuryHistory_ReturnsCopy(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	rec, _ := tb.InjuryHistory("Daniel Jones")
	rec.Injuries[0] = "mutated"

	again, _ := tb.InjuryHistory("Daniel Jones")
	assert.Equal(t, "neck", again.Injuries[0])
}

func TestDefault_Teams(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "BAL", tb.ProTeam(33))
	assert.Equal(t, "NO", tb.ProTeam(18))
	assert.Equal(t, model.FreeAgentTeam, tb.ProTeam(99))

	teams := tb.FallbackTeams()
	require.Len(t, teams, 32)
	assert.Equal(t, model.Team{ID: "1", Name: "Cardinals", Abbreviation: "ARI"}, teams[0])
	assert.Equal(t, "NO", teams[22].Abbreviation)
}

func TestDefault_Catalog(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	cat := tb.Catalog()
	require.Len(t, cat, 6)

	var order []string
	for _, pl := range cat {
		order = append(order, pl.Position)
		assert.NotEmpty(t, pl.Players, pl.Position)
	}
	assert.Equal(t, []string{"QB", "RB", "WR", "TE", "K", "DEF"}, order)
	assert.Equal(t, Entry{Name: "Josh Allen", Team: "BUF"}, cat[0].Players[0])
	assert.Len(t, cat[5].Players, 32)
	assert.Equal(t, "49ers D/ST", cat[5].Players[0].Name)

	fa := tb.FreeAgents()
	require.Len(t, fa, 10)
	assert.Equal(t, "WR", fa[0].Position)
	assert.Equal(t, model.FreeAgentTeam, fa[0].Team)

	assert.Equal(t, []string{"hamstring", "ankle", "shoulder", "knee", "concussion"}, tb.CommonInjuries())
}

func TestParse_SortsTiers(t *testing.T) {
	tb, err := Parse([]byte(`
projection_tiers:
  QB:
    - {start: 6, end: 10, min: 100, max: 200}
    - {start: 1, end: 5, min: 200, max: 300}
`))
	require.NoError(t, err)

	tiers := tb.ProjectionTiers("QB")
	require.Len(t, tiers, 2)
	assert.Equal(t, 1, tiers[0].Start)
	assert.True(t, tiers[0].Contains(5))
	assert.False(t, tiers[0].Contains(6))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "position_risk: [", "tables: parse"},
		{"risk range", "position_risk: {QB: 1.5}", "position_risk[QB]"},
		{"bounds", "projection_bounds: {QB: {min: 10, max: 5, avg: 7}}", "projection_bounds[QB]"},
		{"tier ranks", "projection_tiers: {QB: [{start: 5, end: 1, min: 1, max: 2}]}", "bad rank range"},
		{"tier points", "projection_tiers: {QB: [{start: 1, end: 5, min: 9, max: 2}]}", "min 9 > max 2"},
		{"history", `injury_history: {"A B": {injuries: [], games_missed: 1}}`, "has no injuries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	tb, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, tb.Catalog())

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_risk: 0.15\n"), 0o644))

	tb, err = Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.15, tb.DefaultRisk(), 1e-9)
	assert.Empty(t, tb.Catalog())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWithDefaultRisk(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	lower, err := tb.WithDefaultRisk(0.1)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, lower.DefaultRisk(), 1e-9)
	assert.InDelta(t, 0.20, tb.DefaultRisk(), 1e-9)
	assert.Len(t, lower.FallbackTeams(), 32)

	_, err = tb.WithDefaultRisk(1.5)
	assert.Error(t, err)
}
