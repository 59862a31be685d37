package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

func TestNormalize_ESPNAthlete(t *testing.T) {
	raw := model.RawPlayer{
		SourceID:   "3918298",
		Name:       "Josh Allen",
		FirstName:  "Josh",
		LastName:   "Allen",
		Team:       "buf",
		Jersey:     "17",
		Age:        28,
		Height:     "6' 5\"",
		Weight:     "237 lbs",
		Experience: 7,
		College:    "Wyoming",
		Status:     "Active",
	}

	p, ok := Normalize(raw, "QB")
	require.True(t, ok)
	assert.Equal(t, "Josh Allen", p.Name)
	assert.Equal(t, model.PositionQB, p.Position)
	assert.Equal(t, "BUF", p.Team)
	assert.Zero(t, p.ID)
	assert.Equal(t, model.Stats{}, p.Stats)
	assert.Equal(t, []string{}, p.Injury.InjuryHistory)
	require.NotNil(t, p.Details)
	assert.Equal(t, model.Details{
		Age: 28, Experience: 7, College: "Wyoming", Height: "6' 5\"", Weight: "237 lbs", Jersey: "17",
	}, *p.Details)
}

func TestNormalize_PositionHandling(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		context string
		want    model.Position
		ok      bool
	}{
		{"own position wins", "RB", "QB", model.PositionRB, true},
		{"context fills gap", "", "WR", model.PositionWR, true},
		{"PK synonym", "PK", "", model.PositionK, true},
		{"D/ST synonym", "", "D/ST", model.PositionDEF, true},
		{"lowercase page slug", "", "te", model.PositionTE, true},
		{"offensive line dropped", "OL", "", "", false},
		{"linebacker context dropped", "", "LB", "", false},
		{"nothing known", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Normalize(model.RawPlayer{Name: "Someone", Position: tt.raw}, tt.context)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p.Position)
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	p, ok := Normalize(model.RawPlayer{}, "K")
	require.True(t, ok)
	assert.Equal(t, "Unknown", p.Name)
	assert.Equal(t, model.FreeAgentTeam, p.Team)
	assert.Nil(t, p.Details)
}

func TestPlayerName(t *testing.T) {
	assert.Equal(t, "Full Name", PlayerName(model.RawPlayer{Name: " Full   Name ", DisplayName: "Display"}))
	assert.Equal(t, "Display", PlayerName(model.RawPlayer{DisplayName: "Display"}))
	assert.Equal(t, "First Last", PlayerName(model.RawPlayer{FirstName: "First", LastName: "Last"}))
	assert.Equal(t, "Mononym", PlayerName(model.RawPlayer{LastName: "Mononym"}))
	assert.Equal(t, "Unknown", PlayerName(model.RawPlayer{Name: "   "}))
}

func TestCleanName_NFC(t *testing.T) {
	decomposed := "José Ramirez"
	assert.Equal(t, "José Ramirez", CleanName(decomposed))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Active", Status(model.RawPlayer{}))
	assert.Equal(t, "Injured Reserve", Status(model.RawPlayer{Status: "Injured Reserve"}))
}

func TestDefenseUnits(t *testing.T) {
	teams := []model.Team{
		{ID: "4", Name: "Bills", Abbreviation: "BUF", DisplayName: "Buffalo Bills"},
		{ID: "28", Name: "", Abbreviation: "WSH", DisplayName: "Washington Commanders"},
		{ID: "99"},
	}

	units := DefenseUnits(teams)
	require.Len(t, units, 2)

	assert.Equal(t, "Bills D/ST", units[0].Name)
	assert.Equal(t, model.PositionDEF, units[0].Position)
	assert.Equal(t, "BUF", units[0].Team)
	assert.Nil(t, units[0].Details)
	assert.Equal(t, []string{}, units[0].Injury.InjuryHistory)

	assert.Equal(t, "Washington Commanders D/ST", units[1].Name)
}

func TestFreeAgents(t *testing.T) {
	players := FreeAgents([]tables.Entry{
		{Name: "Dalvin Cook", Position: "RB", Team: "FA"},
		{Name: "Mystery Tackle", Position: "OT", Team: "FA"},
		{Name: "Zach Ertz", Position: "TE"},
	})
	require.Len(t, players, 2)
	assert.Equal(t, "Dalvin Cook", players[0].Name)
	assert.Equal(t, model.PositionRB, players[0].Position)
	assert.Equal(t, model.FreeAgentTeam, players[1].Team)
}
