// Package roster maps raw source records onto the canonical player shape.
package roster

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

const (
	unknownName   = "Unknown"
	activeStatus  = "Active"
	defenseSuffix = " D/ST"
)

// Normalize converts a raw record into a Player with zero-valued stats and
// injury placeholders. positionContext is the enclosing position (roster
// group, ranking page) used when the record carries no position of its
// own. Records outside fantasy positions return false.
func Normalize(raw model.RawPlayer, positionContext string) (model.Player, bool) {
	tag := raw.Position
	if strings.TrimSpace(tag) == "" {
		tag = positionContext
	}
	pos, ok := model.ParsePosition(tag)
	if !ok {
		return model.Player{}, false
	}

	p := model.Player{
		Name:     PlayerName(raw),
		Position: pos,
		Team:     teamOrFA(raw.Team),
		Injury:   model.Injury{InjuryHistory: []string{}},
	}
	if raw.HasDetails() {
		p.Details = &model.Details{
			Age:        max(raw.Age, 0),
			Experience: max(raw.Experience, 0),
			College:    strings.TrimSpace(raw.College),
			Height:     strings.TrimSpace(raw.Height),
			Weight:     strings.TrimSpace(raw.Weight),
			Jersey:     strings.TrimSpace(raw.Jersey),
		}
	}
	return p, true
}

// Status returns the raw roster status, defaulting to Active.
func Status(raw model.RawPlayer) string {
	if s := strings.TrimSpace(raw.Status); s != "" {
		return s
	}
	return activeStatus
}

// PlayerName picks the best available name: full name, display name,
// then first and last name, then "Unknown".
func PlayerName(raw model.RawPlayer) string {
	for _, candidate := range []string{
		raw.Name,
		raw.DisplayName,
		strings.TrimSpace(raw.FirstName + " " + raw.LastName),
	} {
		if name := CleanName(candidate); name != "" {
			return name
		}
	}
	return unknownName
}

// CleanName trims, collapses internal whitespace, and applies Unicode NFC
// so scraped names compare equal to table keys.
func CleanName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// DefenseUnits synthesizes one D/ST record per team.
func DefenseUnits(teams []model.Team) []model.Player {
	out := make([]model.Player, 0, len(teams))
	for _, t := range teams {
		name := CleanName(t.Name)
		if name == "" {
			name = CleanName(t.DisplayName)
		}
		if name == "" {
			continue
		}
		out = append(out, model.Player{
			Name:     name + defenseSuffix,
			Position: model.PositionDEF,
			Team:     teamOrFA(t.Abbreviation),
			Injury:   model.Injury{InjuryHistory: []string{}},
		})
	}
	return out
}

// FreeAgents normalizes literal free-agent entries.
func FreeAgents(entries []tables.Entry) []model.Player {
	out := make([]model.Player, 0, len(entries))
	for _, e := range entries {
		p, ok := Normalize(model.RawPlayer{Name: e.Name, Team: e.Team}, e.Position)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func teamOrFA(team string) string {
	if t := strings.ToUpper(strings.TrimSpace(team)); t != "" {
		return t
	}
	return model.FreeAgentTeam
}
