package templating

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// Names of the full page templates shipped with the binary.
const (
	PostTemplate  = "post.tmpl.html"
	IndexTemplate = "index.tmpl.html"
)

// TemplateManager loads, parses and executes the page templates.
// All methods are concurrent-safe.
type TemplateManager struct {
	logger         *slog.Logger
	config         *TemplateConfig
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	mu             sync.RWMutex
}

// NewTemplateManager creates a TemplateManager and performs an initial Refresh.
// When config.TemplateDir is empty the embedded templates are used.
func NewTemplateManager(logger *slog.Logger, config *TemplateConfig) (*TemplateManager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config == nil {
		def := DefaultConfig()
		config = &def
	}
	tm := &TemplateManager{
		logger: logger,
		config: config,
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Debug("Template manager initialized", "templates", len(tm.templateNames))
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Page helpers (from funcs_content.go)
		"koreanDate":       koreanDate,
		"koreanDatePadded": koreanDatePadded,
		"articleLD":        tm.articleLD,
		"siteName":         tm.siteName,
		"domain":           tm.domain,
		"copyrightYear":    tm.copyrightYear,
		"absURL":           tm.absURL,

		// Logic & Control (from funcs_logic.go)
		"take":     take,
		"join":     join,
		"maxHints": tm.maxHints,
	}
}

// Refresh reloads all templates, either from TemplateDir or from the embedded set.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var (
		parsed *template.Template
		err    error
	)
	root := template.New("").Funcs(tm.funcMap)
	if tm.config.TemplateDir == "" {
		tm.logger.Debug("Loading embedded templates")
		parsed, err = root.ParseFS(defaultTemplates, "templates/*.tmpl.html", "templates/*.part.html")
		if err != nil {
			return fmt.Errorf("failed to parse embedded templates: %w", err)
		}
	} else {
		parsed, err = tm.parseDir(root, tm.config.TemplateDir)
		if err != nil {
			return err
		}
	}

	var names []string
	for _, t := range parsed.Templates() {
		// The root template has no name and is never executed.
		if strings.HasSuffix(t.Name(), ".tmpl.html") {
			names = append(names, t.Name())
		}
	}
	if len(names) == 0 {
		tm.logger.Warn("No page templates found", "dir", tm.config.TemplateDir)
	}

	tm.templates = parsed
	tm.templateNames = names
	tm.logger.Debug("Loaded template and partial files", "count", len(parsed.Templates())-1)

	// Create a clean clone for string executions after all parsing is complete.
	tm.cleanTemplates, err = tm.templates.Clone()
	if err != nil {
		tm.logger.Error("failed to create a clean clone of templates", "error", err)
		return err
	}
	return nil
}

func (tm *TemplateManager) parseDir(root *template.Template, dir string) (*template.Template, error) {
	filePattern := filepath.Join(dir, "*.tmpl.html")
	tm.logger.Debug("Loading template files", "pattern", filePattern)

	parsed, err := root.ParseGlob(filePattern)
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse template files", "error", err)
			return nil, err
		}
		// No template files, so we have to create the object without any
		parsed = root
	}

	filePattern = filepath.Join(dir, "*.part.html")
	tm.logger.Debug("Loading partial files", "pattern", filePattern)

	withParts, err := parsed.ParseGlob(filePattern)
	if err != nil {
		if !strings.Contains(err.Error(), "pattern matches no files") {
			tm.logger.Error("failed to parse partial files", "error", err)
			return nil, err
		}
		withParts = parsed
	}
	return withParts, nil
}

// Execute renders a specific template by name, writing the output to w.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templates.ExecuteTemplate(w, name, data)
}

// GetConfig returns a copy of the current configuration.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateNames returns the names of all loaded templates, partials included.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	var names []string
	for _, t := range tm.templates.Templates() {
		if strings.Contains(t.Name(), ".html") {
			names = append(names, t.Name())
		}
	}
	return names
}

// HasTemplate reports whether a full page template with the given name is loaded.
func (tm *TemplateManager) HasTemplate(name string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	for _, n := range tm.templateNames {
		if n == name {
			return true
		}
	}
	return false
}

// Require returns an error naming every page template in names that is not loaded.
func (tm *TemplateManager) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !tm.HasTemplate(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	dir := tm.GetConfig().TemplateDir
	if dir == "" {
		dir = "embedded templates"
	}
	return fmt.Errorf("missing templates %s in %s (loaded: %s)",
		strings.Join(missing, ", "), dir, strings.Join(tm.GetTemplateNames(), ", "))
}

// ExecuteTemplateString parses and executes a raw template string using the manager's
// function map and partials. Useful for previewing template changes.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}

	t, err := tempSet.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}

	return t.Execute(w, data)
}
