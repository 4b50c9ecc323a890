package puzzledata

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
)

// Catalog holds puzzles keyed by id. Adding a puzzle whose id is already present
// replaces the earlier one and logs a warning.
type Catalog struct {
	logger *slog.Logger
	byID   map[string]Puzzle
}

// NewCatalog creates an empty catalog. A nil logger discards warnings.
func NewCatalog(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{logger: logger, byID: make(map[string]Puzzle)}
}

// Add stores p and reports whether it replaced an earlier puzzle with the same id.
func (c *Catalog) Add(p Puzzle) bool {
	prev, replaced := c.byID[p.ID]
	if replaced {
		c.logger.Warn("Duplicate puzzle id, keeping the later record",
			"id", p.ID, "discarded_title", prev.Title, "kept_title", p.Title)
	}
	c.byID[p.ID] = p
	return replaced
}

// AddAll adds puzzles in order, so the last occurrence of an id wins.
func (c *Catalog) AddAll(puzzles []Puzzle) {
	for _, p := range puzzles {
		c.Add(p)
	}
}

// Get returns the puzzle with the given id.
func (c *Catalog) Get(id string) (Puzzle, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// IDs returns every id in ascending order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Puzzles returns every puzzle ordered by id.
func (c *Catalog) Puzzles() []Puzzle {
	ids := c.IDs()
	out := make([]Puzzle, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of distinct ids.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// LoadCatalog reads and extracts the puzzle database at path. Skipped records and
// lexer errors are logged, not returned.
func LoadCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle database: %w", err)
	}
	c := NewCatalog(logger)
	report := Extract(string(data))
	for _, s := range report.Skipped {
		c.logger.Warn("Skipping malformed puzzle record", "id", s.ID, "error", s.Err)
	}
	if report.LexErr != nil {
		c.logger.Warn("Puzzle database has lexical errors, affected records were skipped", "path", path, "error", report.LexErr)
	}
	c.AddAll(report.Puzzles)
	c.logger.Info("Loaded puzzle database", "path", path, "records", len(report.Puzzles), "puzzles", c.Len())
	return c, nil
}
