package source

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/model"
)

// Chain tries sources in priority order, returning the first one that
// yields at least one record.
type Chain struct {
	sources []Source
}

// NewChain creates a Chain. Sources are tried in the order given.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Fetch returns the records of the first productive source and its name.
func (c *Chain) Fetch(ctx context.Context) ([]model.RawPlayer, string, error) {
	var lastErr error
	for _, s := range c.sources {
		players, err := s.Fetch(ctx)
		if err == nil && len(players) > 0 {
			return players, s.Name(), nil
		}
		if ctx.Err() != nil {
			return nil, "", eris.Wrap(ctx.Err(), "source: chain cancelled")
		}
		if err == nil {
			err = eris.Errorf("source: %s returned no players", s.Name())
		}
		zap.L().Warn("source: falling back to next source",
			zap.String("source", s.Name()),
			zap.Error(err),
		)
		lastErr = err
	}
	if lastErr != nil {
		return nil, "", eris.Wrap(lastErr, "source: all sources failed")
	}
	return nil, "", eris.New("source: no sources configured")
}
