// Package publish runs the daily publish job: it takes the puzzles scheduled for a date,
// writes a post for each one not published yet, records them in the manifest and
// regenerates the post board and sitemap.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CTAG07/Crossero/pkg/export"
	"github.com/CTAG07/Crossero/pkg/manifest"
	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/CTAG07/Crossero/pkg/schedule"
	"github.com/CTAG07/Crossero/pkg/site"
	"github.com/CTAG07/Crossero/pkg/templating"
	"github.com/google/uuid"
)

// ErrInvalidDate is returned by Run for a date that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid publish date")

// State is the outcome class of a run.
type State string

const (
	// StateNoSchedule means no schedule has been built. Nothing is written.
	StateNoSchedule State = "NO_SCHEDULE"
	// StateNothingDue means the date has no bucket. Index artifacts are regenerated.
	StateNothingDue State = "NOTHING_DUE"
	// StateMissingCapability means the required exporter is unavailable. Index
	// artifacts are regenerated and nothing is published.
	StateMissingCapability State = "MISSING_CAPABILITY"
	// StatePublishing is the normal path.
	StatePublishing State = "PUBLISHING"
)

// Source looks puzzles up by id. *puzzledata.Catalog implements it.
type Source interface {
	Get(id string) (puzzledata.Puzzle, bool)
}

// Site renders posts and index artifacts. *site.Site implements it.
type Site interface {
	BuildPost(p puzzledata.Puzzle, slug, date string, art *export.Result) templating.PostPage
	WritePost(page templating.PostPage) (string, error)
	Rebuild(entries []manifest.Entry) error
}

// Result summarises a run.
type Result struct {
	RunID string
	State State
	Date  string

	Published        []manifest.Entry
	AlreadyPublished []string
	Unknown          []string
	Failed           []string

	// Message is the operator-facing explanation of a run that did not publish.
	Message string
}

// Driver wires the publish job together.
type Driver struct {
	Schedules schedule.Store
	Manifests manifest.Store
	Source    Source
	Site      Site

	// Exporter produces the puzzle image. When RequireExporter is set and it is not
	// available, the run stops in StateMissingCapability.
	Exporter        export.Exporter
	Fallback        export.Exporter
	RequireExporter bool

	// Clock returns the current time; time.Now when nil.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Today returns the current date as YYYY-MM-DD according to the driver's clock.
func (d *Driver) Today() string {
	now := time.Now
	if d.Clock != nil {
		now = d.Clock
	}
	return now().Format(schedule.DateLayout)
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

const (
	noScheduleMessage = "No publish schedule found. Build one first with: crossero init"
	missingExporter   = "Publishing stopped: puzzle images need a headless Chrome or Chromium. " +
		"Install one, point export.browser_bin at it, or set export.require_browser to false to publish with placeholder images."
)

// Run publishes the bucket due on date. The current date and an explicit date go
// through the same path; callers pass d.Today() for the former.
func (d *Driver) Run(ctx context.Context, date string) (*Result, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	res := &Result{RunID: uuid.NewString(), Date: date}
	logger := d.logger().With("run_id", res.RunID, "date", date)

	sched, err := d.Schedules.Load()
	if err != nil {
		if errors.Is(err, schedule.ErrNoSchedule) {
			res.State = StateNoSchedule
			res.Message = noScheduleMessage
			logger.Error(noScheduleMessage, "error", err)
			return res, err
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	mf, err := d.Manifests.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	due := sched.Due(date)
	if len(due) == 0 {
		res.State = StateNothingDue
		logger.Info("Nothing scheduled for this date")
		return res, d.rebuild(mf)
	}

	if d.RequireExporter {
		if err = d.exporterAvailable(ctx); err != nil {
			res.State = StateMissingCapability
			res.Message = missingExporter
			logger.Error(missingExporter, "error", err)
			return res, d.rebuild(mf)
		}
	}

	res.State = StatePublishing
	logger.Info("Publishing due puzzles", "due", len(due), "already_published", mf.Len())
	chain := export.NewChain(logger, d.Exporter, d.Fallback)

	for _, id := range due {
		entry, status := d.publishOne(ctx, logger, chain, mf, id, date)
		switch status {
		case statusPublished:
			res.Published = append(res.Published, entry)
			// The manifest is saved after every published post.
			if err = d.Manifests.Save(mf); err != nil {
				logger.Error("Failed to save manifest", "id", id, "error", err)
			}
		case statusAlreadyPublished:
			res.AlreadyPublished = append(res.AlreadyPublished, id)
		case statusUnknown:
			res.Unknown = append(res.Unknown, id)
		case statusFailed:
			res.Failed = append(res.Failed, id)
		}
	}

	if err = d.Manifests.Save(mf); err != nil {
		return res, fmt.Errorf("failed to save manifest: %w", err)
	}
	if err = d.rebuild(mf); err != nil {
		return res, err
	}
	logger.Info("Publish run finished",
		"published", len(res.Published),
		"already_published", len(res.AlreadyPublished),
		"unknown", len(res.Unknown),
		"failed", len(res.Failed),
		"total", mf.Len())
	return res, nil
}

func (d *Driver) exporterAvailable(ctx context.Context) error {
	if d.Exporter == nil {
		return fmt.Errorf("%w: no exporter configured", export.ErrUnavailable)
	}
	return d.Exporter.Available(ctx)
}

type recordStatus int

const (
	statusPublished recordStatus = iota
	statusAlreadyPublished
	statusUnknown
	statusFailed
)

// publishOne writes the post of one due id and appends it to mf.
func (d *Driver) publishOne(ctx context.Context, logger *slog.Logger, chain *export.Chain, mf *manifest.Manifest, id, date string) (manifest.Entry, recordStatus) {
	if prev, ok := mf.Lookup(id); ok {
		logger.Info("Puzzle already published, skipping", "id", id, "slug", prev.Slug, "published_on", prev.Date)
		return manifest.Entry{}, statusAlreadyPublished
	}
	p, ok := d.Source.Get(id)
	if !ok {
		logger.Warn("Scheduled puzzle not found in the database, skipping", "id", id)
		return manifest.Entry{}, statusUnknown
	}

	title := site.DisplayTitle(p)
	slug := site.UniqueSlug(site.Slugify(title), id, mf.HasSlug)
	art := chain.Export(ctx, id, site.UniqueImageSlug(title, slug), len(p.Hints))

	page := d.Site.BuildPost(p, slug, date, art)
	path, err := d.Site.WritePost(page)
	if err != nil {
		logger.Error("Failed to write post", "id", id, "slug", slug, "error", err)
		return manifest.Entry{}, statusFailed
	}

	entry := manifest.Entry{Slug: slug, Date: date, ID: id, Title: title}
	if err = mf.Append(entry); err != nil {
		logger.Error("Failed to record post in manifest", "id", id, "slug", slug, "error", err)
		return manifest.Entry{}, statusFailed
	}
	logger.Info("Published post", "id", id, "slug", slug, "path", path, "image", art != nil)
	return entry, statusPublished
}

// Rebuild regenerates the index artifacts from the stored manifest.
func (d *Driver) Rebuild(_ context.Context) error {
	mf, err := d.Manifests.Load()
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	return d.rebuild(mf)
}

func (d *Driver) rebuild(mf *manifest.Manifest) error {
	if err := d.Site.Rebuild(mf.Entries()); err != nil {
		return fmt.Errorf("failed to rebuild index artifacts: %w", err)
	}
	return nil
}
