// Package source adapts public NFL data feeds into raw player records.
package source

import (
	"context"

	"github.com/sells-group/draftboard-cli/internal/model"
)

// Source yields ranked raw player records. Each record carries its
// position tag and its 1-based rank within that position.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RawPlayer, error)
}

// Source names.
const (
	NameESPNFantasy = "espn-fantasy"
	NameFantasyPros = "fantasypros"
	NameCatalog     = "catalog"
)
