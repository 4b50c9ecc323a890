package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CTAG07/Crossero/pkg/export"
	"github.com/CTAG07/Crossero/pkg/manifest"
	"github.com/CTAG07/Crossero/pkg/publish"
	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/CTAG07/Crossero/pkg/schedule"
	"github.com/CTAG07/Crossero/pkg/site"
	"github.com/CTAG07/Crossero/pkg/templating"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app carries the state shared by every command once the root command has loaded the
// configuration.
type app struct {
	configPath string
	verbose    bool

	config  *Config
	logger  *slog.Logger
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the process logger. The json format routes slog through a zap
// production core.
func newLogger(level slog.Level, format string) (*slog.Logger, func(), error) {
	if strings.ToLower(format) != "json" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})), func() {}, nil
	}

	zapLevel := zapcore.InfoLevel
	switch {
	case level <= slog.LevelDebug:
		zapLevel = zapcore.DebugLevel
	case level >= slog.LevelError:
		zapLevel = zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		zapLevel = zapcore.WarnLevel
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stdout"}
	zl, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return slog.New(zapslog.NewHandler(zl.Core())), func() { _ = zl.Sync() }, nil
}

func (a *app) load(_ *cobra.Command, _ []string) error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.config = config

	level := parseLevel(config.Site.LogLevel)
	if a.verbose {
		level = slog.LevelDebug
	}
	logger, sync, err := newLogger(level, config.Site.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, sync)
	return nil
}

func (a *app) manifestStore() (manifest.Store, error) {
	if a.config.Site.ManifestStore != "sqlite" {
		return manifest.NewFileStore(a.config.Site.ManifestPath), nil
	}
	db, err := initDB(a.config.Site.ManifestDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}
	if err = manifest.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := db.Close(); err != nil {
			a.logger.Error("Failed to close manifest database", "error", err)
		}
	})
	return manifest.NewSQLStore(db), nil
}

func (a *app) newSite() (*site.Site, error) {
	tm, err := templating.NewTemplateManager(a.logger, a.config.Templates)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}
	s := site.New(a.logger, tm, a.config.Site.Config, nil)
	if err = s.CheckTemplates(); err != nil {
		return nil, err
	}
	return s, nil
}

// newDriver wires the publish driver. The puzzle database is only read when load is set.
func (a *app) newDriver(load bool) (*publish.Driver, error) {
	s, err := a.newSite()
	if err != nil {
		return nil, err
	}
	manifests, err := a.manifestStore()
	if err != nil {
		return nil, err
	}
	d := &publish.Driver{
		Schedules:       schedule.NewFileStore(a.config.Site.SchedulePath),
		Manifests:       manifests,
		Site:            s,
		Exporter:        export.NewBrowserExporter(a.logger, a.config.Export.BrowserConfig, a.config.Site.Domain, a.config.Export.ImagesDir),
		Fallback:        export.NewGridExporter(a.config.Export.ImagesDir, a.config.Export.GridSize, a.config.Export.GridCells),
		RequireExporter: a.config.Export.RequireBrowser,
		Logger:          a.logger,
	}
	if load {
		catalog, err := puzzledata.LoadCatalog(a.config.Site.DataPath, a.logger)
		if err != nil {
			return nil, err
		}
		d.Source = catalog
	}
	return d, nil
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	catalog, err := puzzledata.LoadCatalog(a.config.Site.DataPath, a.logger)
	if err != nil {
		return err
	}
	cfg := a.config.Schedule
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sched, err := schedule.NewBuilder(seed).Build(catalog.IDs(), cfg.StartDate(), cfg.MinPerDay, cfg.MaxPerDay)
	if err != nil {
		return fmt.Errorf("failed to build schedule: %w", err)
	}
	if err = schedule.NewFileStore(a.config.Site.SchedulePath).Save(sched); err != nil {
		return err
	}

	dates := sched.Dates()
	a.logger.Info("Built publish schedule", "path", a.config.Site.SchedulePath, "puzzles", sched.Len(), "days", len(dates))
	out := cmd.OutOrStdout()
	if len(dates) == 0 {
		_, _ = fmt.Fprintln(out, "No puzzles found, wrote an empty schedule.")
		return nil
	}
	_, _ = fmt.Fprintf(out, "Scheduled %d puzzles over %d days (%s to %s).\n", sched.Len(), len(dates), dates[0], dates[len(dates)-1])
	return nil
}

func (a *app) runPublish(cmd *cobra.Command, _ []string) error {
	date, _ := cmd.Flags().GetString("date")
	d, err := a.newDriver(true)
	if err != nil {
		return err
	}
	if date == "" {
		date = d.Today()
	}

	res, err := d.Run(cmd.Context(), date)
	out := cmd.OutOrStdout()
	if res != nil {
		printResult(out, res)
	}
	if errors.Is(err, schedule.ErrNoSchedule) {
		return errors.New("no publish schedule, run init first")
	}
	return err
}

func printResult(out io.Writer, res *publish.Result) {
	switch res.State {
	case publish.StateNoSchedule, publish.StateMissingCapability:
		_, _ = fmt.Fprintln(out, res.Message)
	case publish.StateNothingDue:
		_, _ = fmt.Fprintf(out, "Nothing scheduled for %s. Index and sitemap regenerated.\n", res.Date)
	case publish.StatePublishing:
		for _, e := range res.Published {
			_, _ = fmt.Fprintf(out, "Published %s (%s) -> posts/%s.html\n", e.Title, e.ID, e.Slug)
		}
		_, _ = fmt.Fprintf(out, "%s: %d published, %d already published, %d unknown, %d failed.\n",
			res.Date, len(res.Published), len(res.AlreadyPublished), len(res.Unknown), len(res.Failed))
	}
}

func (a *app) runRebuild(cmd *cobra.Command, _ []string) error {
	d, err := a.newDriver(false)
	if err != nil {
		return err
	}
	if err = d.Rebuild(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Index and sitemap regenerated.")
	return nil
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "crossero",
		Short:         "Publish daily crossword puzzle posts for the Crossero site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd, args)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.json", "Configuration file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Build the publish schedule from the puzzle database",
		Long: `Assigns every puzzle id, in ascending order, to consecutive dates starting at
schedule_config.start. Any existing schedule is overwritten; the publish manifest is not touched.`,
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the posts scheduled for today or --date",
		Args:  cobra.NoArgs,
		RunE:  a.runPublish,
	}
	publishCmd.Flags().String("date", "", "Publish date (YYYY-MM-DD), defaults to today")

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate the post board and sitemap from the manifest",
		Args:  cobra.NoArgs,
		RunE:  a.runRebuild,
	}

	enrichCmd := &cobra.Command{
		Use:   "enrich [BIBLE.csv]",
		Short: "Extract extra puzzle words from a Bible text CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runEnrich,
	}

	previewCmd := &cobra.Command{
		Use:   "preview ID",
		Short: "Render the post of one puzzle to stdout without publishing it",
		Long: `Renders the post page of a puzzle with a placeholder image, using the post
template or, with --template, a raw template file that may call the loaded partials.
Nothing is written to the site and the manifest is not touched.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runPreview,
	}
	previewCmd.Flags().String("template", "", "Raw template file to render instead of the post template")
	previewCmd.Flags().String("date", "", "Post date (YYYY-MM-DD), defaults to today")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "crossero %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(initCmd, publishCmd, rebuildCmd, enrichCmd, previewCmd, versionCmd)
	return rootCmd, a
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd, a := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		a.close()
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
