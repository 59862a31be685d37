package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/draftboard-cli/internal/model"
)

func pl(name string, pos model.Position, total float64) model.Player {
	return model.Player{
		Name:     name,
		Position: pos,
		Team:     "FA",
		Stats:    model.Stats{GamesPlayed: 17, TotalPoints: total, AveragePoints: total / 17},
		Injury:   model.Injury{InjuryHistory: []string{}, RiskScore: 0.2},
	}
}

func names(players []model.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func TestSort_PositionThenPoints(t *testing.T) {
	players := []model.Player{
		pl("qb250", model.PositionQB, 250),
		pl("rb280", model.PositionRB, 280),
		pl("qb300", model.PositionQB, 300),
	}
	Sort(players)
	assert.Equal(t, []string{"qb300", "qb250", "rb280"}, names(players))
}

func TestSort_StableOnTies(t *testing.T) {
	players := []model.Player{
		pl("first", model.PositionK, 120),
		pl("def", model.PositionDEF, 90),
		pl("second", model.PositionK, 120),
	}
	Sort(players)
	assert.Equal(t, []string{"def", "first", "second"}, names(players))
}

func TestAssignIDs_Dense(t *testing.T) {
	players := []model.Player{pl("a", model.PositionWR, 1), pl("b", model.PositionTE, 2), pl("c", model.PositionQB, 3)}
	AssignIDs(players)
	for i, p := range players {
		assert.Equal(t, i+1, p.ID)
	}
}

func TestSummarize(t *testing.T) {
	players := []model.Player{
		pl("a", model.PositionQB, 1), pl("b", model.PositionQB, 2), pl("c", model.PositionDEF, 3),
	}
	now := time.Date(2024, 8, 1, 12, 30, 0, 0, time.UTC)

	s := Summarize(players, "Test Source", now)
	assert.Equal(t, "2024-08-01T12:30:00Z", s.LastUpdated)
	assert.Equal(t, 3, s.TotalPlayers)
	assert.Equal(t, map[model.Position]int{model.PositionQB: 2, model.PositionDEF: 1}, s.Positions)
	assert.Equal(t, "Test Source", s.DataSource)

	sum := 0
	for _, n := range s.Positions {
		sum += n
	}
	assert.Equal(t, s.TotalPlayers, sum)
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	w := NewWriter(dir, "players.json", "summary.json")
	assert.Equal(t, dir, w.Dir())

	players := []model.Player{pl("Josh Allen", model.PositionQB, 340)}
	AssignIDs(players)
	summary := Summarize(players, "Test", time.Unix(0, 0).UTC())

	paths, err := w.Write(players, summary)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "players.json"), paths.Players)

	raw, err := os.ReadFile(paths.Players)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("[\n  {\n    \"id\": 1,")), string(raw[:20]))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.NotContains(t, decoded[0], "details")
	assert.Equal(t, []any{}, decoded[0]["injury"].(map[string]any)["injuryHistory"])

	back, err := ReadPlayers(paths.Players)
	require.NoError(t, err)
	assert.Equal(t, players, back)

	gotSummary, err := ReadSummary(paths.Summary)
	require.NoError(t, err)
	assert.Equal(t, summary, gotSummary)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files cleaned up")
}

func TestWriter_EmptyDatasetIsArray(t *testing.T) {
	w := NewWriter(t.TempDir(), "players.json", "summary.json")
	paths, err := w.Write(nil, Summarize(nil, "none", time.Now()))
	require.NoError(t, err)

	raw, err := os.ReadFile(paths.Players)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestWriteJSON_UnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteJSON(filepath.Join(blocker, "players.json"), []int{1})
	require.Error(t, err)
}

func TestReadPlayers_Errors(t *testing.T) {
	_, err := ReadPlayers(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadPlayers(bad)
	require.Error(t, err)
}

func TestPrintBreakdown(t *testing.T) {
	var buf bytes.Buffer
	PrintBreakdown(&buf, model.Summary{
		TotalPlayers: 3,
		DataSource:   "Test",
		Positions:    map[model.Position]int{model.PositionWR: 2, model.PositionDEF: 1},
	})
	assert.Equal(t, "Collected 3 players (Test)\nPosition breakdown:\n  DEF: 1 players\n  WR: 2 players\n", buf.String())
}
