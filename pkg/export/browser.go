package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// BrowserConfig configures the headless browser exporter.
type BrowserConfig struct {
	// Bin is the browser executable. Empty means look it up on this host.
	Bin string `json:"browser_bin" yaml:"browser_bin"`
	// Headless runs the browser without a window.
	Headless bool `json:"headless" yaml:"headless"`
	// NoSandbox disables the Chrome sandbox, needed in some containers.
	NoSandbox bool `json:"no_sandbox" yaml:"no_sandbox"`
	// PlayPage is the path of the play page that renders the export.
	PlayPage string `json:"play_page" yaml:"play_page"`
	// TimeoutMs bounds page load and the wait for the export to finish.
	TimeoutMs int `json:"timeout_ms" yaml:"timeout_ms"`
}

// Timeout returns the configured timeout, 15 seconds when unset.
func (c BrowserConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// BrowserExporter renders a puzzle by opening the play page in export mode and reading
// the values it publishes on window once window.__puzzleExportReady is true.
type BrowserExporter struct {
	cfg       BrowserConfig
	domain    string
	imagesDir string
	logger    *slog.Logger

	// lookPath resolves the browser binary; replaced in tests.
	lookPath func() (string, bool)
}

// NewBrowserExporter creates a BrowserExporter writing images into imagesDir and
// building answer links on domain.
func NewBrowserExporter(logger *slog.Logger, cfg BrowserConfig, domain, imagesDir string) *BrowserExporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BrowserExporter{
		cfg:       cfg,
		domain:    domain,
		imagesDir: imagesDir,
		logger:    logger,
		lookPath:  launcher.LookPath,
	}
}

// Name implements Exporter.
func (b *BrowserExporter) Name() string { return "browser" }

func (b *BrowserExporter) bin() (string, error) {
	if b.cfg.Bin != "" {
		if _, err := os.Stat(b.cfg.Bin); err != nil {
			return "", fmt.Errorf("%w: browser %s: %v", ErrUnavailable, b.cfg.Bin, err)
		}
		return b.cfg.Bin, nil
	}
	if path, ok := b.lookPath(); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium installation found, install one or set export.browser_bin", ErrUnavailable)
}

// Available implements Exporter. It checks the browser binary and the play page.
func (b *BrowserExporter) Available(_ context.Context) error {
	if _, err := b.bin(); err != nil {
		return err
	}
	if _, err := os.Stat(b.cfg.PlayPage); err != nil {
		return fmt.Errorf("%w: play page %s: %v", ErrUnavailable, b.cfg.PlayPage, err)
	}
	return nil
}

// pageURL returns the file URL of the play page in export mode for id.
func (b *BrowserExporter) pageURL(id string) (string, error) {
	abs, err := filepath.Abs(b.cfg.PlayPage)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: url.Values{"id": {id}, "export": {"1"}}.Encode(),
	}
	return u.String(), nil
}

// exportState is what the play page leaves on window after an export.
type exportState struct {
	DataURL string   `json:"dataUrl"`
	Across  []string `json:"across"`
	Down    []string `json:"down"`
	Grid    string   `json:"grid"`
	Hints   string   `json:"hints"`
}

const readExportState = `() => ({
	dataUrl: window.__puzzleExportDataUrl || "",
	across: window.__puzzleExportAcross || [],
	down: window.__puzzleExportDown || [],
	grid: window.__puzzlePlayG || "",
	hints: window.__puzzleExportHints || ""
})`

// Export implements Exporter.
func (b *BrowserExporter) Export(ctx context.Context, id, name string, _ int) (*Result, error) {
	bin, err := b.bin()
	if err != nil {
		return nil, err
	}
	target, err := b.pageURL(id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve play page: %w", err)
	}

	l := launcher.New().Bin(bin).Headless(b.cfg.Headless)
	if b.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err = browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	state, err := b.render(browser, target)
	if err != nil {
		return nil, err
	}
	return b.finish(state, name)
}

func (b *BrowserExporter) render(browser *rod.Browser, target string) (*exportState, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page = page.Timeout(b.cfg.Timeout())

	if err = page.Navigate(target); err != nil {
		return nil, fmt.Errorf("navigate to play page: %w", err)
	}
	if err = page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for play page: %w", err)
	}
	if err = page.Wait(&rod.EvalOptions{JS: `() => window.__puzzleExportReady === true`}); err != nil {
		return nil, fmt.Errorf("wait for export: %w", err)
	}

	res, err := page.Evaluate(&rod.EvalOptions{JS: readExportState, ByValue: true})
	if err != nil {
		return nil, fmt.Errorf("read export state: %w", err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var state exportState
	if err = json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode export state: %w", err)
	}
	return &state, nil
}

// finish writes the image and assembles the result from what the play page published.
func (b *BrowserExporter) finish(state *exportState, name string) (*Result, error) {
	png, err := DecodePNGDataURL(state.DataURL)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(b.imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	imageName := name + ".png"
	path := filepath.Join(b.imagesDir, imageName)
	if err = atomic.WriteFile(path, bytes.NewReader(png)); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	res := &Result{
		ImagePath: path,
		ImageName: imageName,
		Across:    state.Across,
		Down:      state.Down,
	}
	if res.Across == nil {
		res.Across = []string{}
	}
	if res.Down == nil {
		res.Down = []string{}
	}
	if state.Hints != "" {
		hints, err := ParseNumberedHints(state.Hints)
		if err != nil {
			b.logger.Warn("Ignoring unreadable hint payload", "image", imageName, "error", err)
		} else {
			res.Numbered = hints
		}
	}
	res.AnswerURL, err = AnswerURL(b.domain, state.Grid, res.Numbered)
	if err != nil {
		b.logger.Warn("Could not build answer link", "image", imageName, "error", err)
		res.AnswerURL = ""
	}
	return res, nil
}
