package source

import (
	"context"

	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/tables"
)

// Catalog serves the literal per-position player lists from the reference
// tables. It never fails and ends every fallback chain.
type Catalog struct {
	lists []tables.PositionList
}

// NewCatalog creates a Catalog over the tables' literal lists.
func NewCatalog(tb *tables.Tables) *Catalog {
	return &Catalog{lists: tb.Catalog()}
}

// Name implements Source.
func (c *Catalog) Name() string { return NameCatalog }

// Fetch implements Source. Rank is the entry's order within its list.
func (c *Catalog) Fetch(_ context.Context) ([]model.RawPlayer, error) {
	var out []model.RawPlayer
	for _, list := range c.lists {
		for i, e := range list.Players {
			out = append(out, model.RawPlayer{
				Name:     e.Name,
				Position: list.Position,
				Team:     e.Team,
				Rank:     i + 1,
			})
		}
	}
	return out, nil
}
