// Package output numbers, orders, summarizes and writes a generated
// player dataset.
package output

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/model"
)

// AssignIDs numbers players 1..N in their current order.
func AssignIDs(players []model.Player) {
	for i := range players {
		players[i].ID = i + 1
	}
}

// Sort orders players stably by position ascending, then total points
// descending.
func Sort(players []model.Player) {
	slices.SortStableFunc(players, func(a, b model.Player) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(b.Stats.TotalPoints, a.Stats.TotalPoints)
	})
}

// Summarize counts players per position.
func Summarize(players []model.Player, dataSource string, now time.Time) model.Summary {
	positions := make(map[model.Position]int)
	for _, p := range players {
		positions[p.Position]++
	}
	return model.Summary{
		LastUpdated:  now.Format(model.SummaryTimeFormat),
		TotalPlayers: len(players),
		Positions:    positions,
		DataSource:   dataSource,
	}
}

// Paths are the files a Writer produced.
type Paths struct {
	Players string
	Summary string
}

// Writer persists a dataset as two JSON files in one directory.
type Writer struct {
	dir         string
	playersFile string
	summaryFile string
}

// NewWriter creates a Writer.
func NewWriter(dir, playersFile, summaryFile string) *Writer {
	return &Writer{dir: dir, playersFile: playersFile, summaryFile: summaryFile}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write stores the players and the summary. Each file is replaced
// atomically.
func (w *Writer) Write(players []model.Player, summary model.Summary) (Paths, error) {
	if players == nil {
		players = []model.Player{}
	}
	paths := Paths{
		Players: filepath.Join(w.dir, w.playersFile),
		Summary: filepath.Join(w.dir, w.summaryFile),
	}
	if err := WriteJSON(paths.Players, players); err != nil {
		return Paths{}, err
	}
	if err := WriteJSON(paths.Summary, summary); err != nil {
		return Paths{}, err
	}

	zap.L().Info("output: dataset written",
		zap.String("players_path", paths.Players),
		zap.Int("players", len(players)),
	)
	return paths, nil
}

// WriteJSON writes v as 2-space indented JSON, creating the parent
// directory if needed.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "output: encode %s", filepath.Base(path))
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "output: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "output: create temp for %s", path)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrapf(err, "output: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "output: close %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return eris.Wrapf(err, "output: chmod %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "output: rename %s", path)
	}
	return nil
}

// ReadPlayers loads a players file written by Writer.
func ReadPlayers(path string) ([]model.Player, error) {
	var players []model.Player
	if err := readJSON(path, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// ReadSummary loads a summary file written by Writer.
func ReadSummary(path string) (model.Summary, error) {
	var s model.Summary
	err := readJSON(path, &s)
	return s, err
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "output: read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "output: decode %s", path)
	}
	return nil
}

// PrintBreakdown writes the per-position counts in position order.
func PrintBreakdown(w io.Writer, s model.Summary) {
	fmt.Fprintf(w, "Collected %d players (%s)\n", s.TotalPlayers, s.DataSource)
	fmt.Fprintln(w, "Position breakdown:")
	positions := make([]model.Position, 0, len(s.Positions))
	for pos := range s.Positions {
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	for _, pos := range positions {
		fmt.Fprintf(w, "  %s: %d players\n", pos, s.Positions[pos])
	}
}
