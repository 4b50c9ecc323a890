package export

import (
	"context"
	"log/slog"
)

// Chain tries exporters in order and returns the first result.
type Chain struct {
	exporters []Exporter
	logger    *slog.Logger
}

// NewChain returns a Chain over exporters. Nil entries are ignored.
func NewChain(logger *slog.Logger, exporters ...Exporter) *Chain {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Chain{logger: logger}
	for _, e := range exporters {
		if e != nil {
			c.exporters = append(c.exporters, e)
		}
	}
	return c
}

// Export runs each available exporter until one succeeds. When every exporter is
// unavailable or fails, it returns nil and the caller uses the generic image.
func (c *Chain) Export(ctx context.Context, id, name string, hintCount int) *Result {
	for _, e := range c.exporters {
		if err := e.Available(ctx); err != nil {
			c.logger.Debug("Exporter unavailable", "exporter", e.Name(), "id", id, "error", err)
			continue
		}
		res, err := e.Export(ctx, id, name, hintCount)
		if err != nil {
			c.logger.Warn("Export failed, trying next exporter", "exporter", e.Name(), "id", id, "error", err)
			continue
		}
		c.logger.Info("Exported puzzle image", "exporter", e.Name(), "id", id, "image", res.ImageName)
		return res
	}
	c.logger.Warn("No exporter produced an image, using the generic image", "id", id)
	return nil
}
