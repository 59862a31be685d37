package model

import (
	"strings"
	"time"
)

// Position is a fantasy roster slot.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// FantasyPositions lists the fantasy-relevant positions in output order.
var FantasyPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF}

// FreeAgentTeam is the team abbreviation used for players without a team.
const FreeAgentTeam = "FA"

// ParsePosition maps a source position tag to a fantasy Position.
// Synonyms are accepted case-insensitively: PK is a kicker, D/ST and DST
// are team defenses. Returns false for positions outside fantasy scope.
func ParsePosition(s string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QB":
		return PositionQB, true
	case "RB":
		return PositionRB, true
	case "WR":
		return PositionWR, true
	case "TE":
		return PositionTE, true
	case "K", "PK":
		return PositionK, true
	case "DEF", "D/ST", "DST":
		return PositionDEF, true
	default:
		return "", false
	}
}

// Stats holds synthesized season scoring for a player.
type Stats struct {
	GamesPlayed   int     `json:"gamesPlayed"`
	TotalPoints   float64 `json:"totalPoints"`
	AveragePoints float64 `json:"averagePoints"`
	Consistency   float64 `json:"consistency"`
}

// Injury holds synthesized injury information for a player.
type Injury struct {
	GamesInjured  int      `json:"gamesInjured"`
	InjuryHistory []string `json:"injuryHistory"`
	RiskScore     float64  `json:"riskScore"`
}

// Details carries informational roster attributes. Only Age and
// Experience feed the synthesis model.
type Details struct {
	Age        int    `json:"age"`
	Experience int    `json:"experience"`
	College    string `json:"college"`
	Height     string `json:"height"`
	Weight     string `json:"weight"`
	Jersey     string `json:"jersey"`
}

// Player is the canonical player record written to players.json.
type Player struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Team     string   `json:"team"`
	Stats    Stats    `json:"stats"`
	Injury   Injury   `json:"injury"`
	Details  *Details `json:"details,omitempty"`
}

// Age returns the player's age, or 0 when unknown.
func (p *Player) Age() int {
	if p.Details == nil {
		return 0
	}
	return p.Details.Age
}

// Experience returns the player's years of experience, or 0 when unknown.
func (p *Player) Experience() int {
	if p.Details == nil {
		return 0
	}
	return p.Details.Experience
}

// RawPlayer is a player record as emitted by a source adapter, before
// normalization. Zero values mean the source did not provide the field.
type RawPlayer struct {
	SourceID    string
	Name        string
	DisplayName string
	FirstName   string
	LastName    string
	Position    string
	Team        string
	Jersey      string
	Age         int
	Height      string
	Weight      string
	Experience  int
	College     string
	Status      string
	Rank        int // 1-based rank within the source's position list; 0 if unranked
}

// HasDetails reports whether the raw record carries any roster detail.
func (r RawPlayer) HasDetails() bool {
	return r.Age > 0 || r.Experience > 0 || r.College != "" ||
		r.Height != "" || r.Weight != "" || r.Jersey != ""
}

// Team is an NFL franchise as reported by a source.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName,omitempty"`
	Location     string `json:"location,omitempty"`
}

// Summary describes one generated dataset.
type Summary struct {
	LastUpdated  string           `json:"lastUpdated"`
	TotalPlayers int              `json:"totalPlayers"`
	Positions    map[Position]int `json:"positions"`
	DataSource   string           `json:"dataSource"`
}

// SummaryTimeFormat is the ISO-8601 layout used for Summary.LastUpdated.
const SummaryTimeFormat = time.RFC3339
