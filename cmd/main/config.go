package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CTAG07/Crossero/pkg/export"
	"github.com/CTAG07/Crossero/pkg/schedule"
	"github.com/CTAG07/Crossero/pkg/site"
	"github.com/CTAG07/Crossero/pkg/templating"
	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// SiteConfig locates the inputs and state files of the generator, plus the output
// layout of the site itself.
type SiteConfig struct {
	site.Config `yaml:",inline"`

	// DataPath is the puzzle database script (data.js).
	DataPath string `json:"data_path" yaml:"data_path"`
	// SchedulePath is the publish schedule file.
	SchedulePath string `json:"schedule_path" yaml:"schedule_path"`
	// ManifestPath is the JSON manifest, used when ManifestStore is "json".
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	// ManifestStore selects the manifest backend: json or sqlite.
	ManifestStore string `json:"manifest_store" yaml:"manifest_store"`
	// ManifestDatabase is the SQLite data source, used when ManifestStore is "sqlite".
	ManifestDatabase string `json:"manifest_database" yaml:"manifest_database"`
	LogLevel         string `json:"log_level" yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// ScheduleConfig holds the settings of the init command.
type ScheduleConfig struct {
	// Start is the first publish date, YYYY-MM-DD.
	Start     string `json:"start" yaml:"start"`
	MinPerDay int    `json:"min_per_day" yaml:"min_per_day"`
	MaxPerDay int    `json:"max_per_day" yaml:"max_per_day"`
	// Seed makes bucket sizes reproducible. Zero seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// ExportConfig holds the puzzle image settings.
type ExportConfig struct {
	export.BrowserConfig `yaml:",inline"`

	// RequireBrowser stops a publish run when no browser is available instead of
	// publishing with placeholder grid images.
	RequireBrowser bool   `json:"require_browser" yaml:"require_browser"`
	ImagesDir      string `json:"images_dir" yaml:"images_dir"`
	GridSize       int    `json:"grid_size" yaml:"grid_size"`
	GridCells      int    `json:"grid_cells" yaml:"grid_cells"`
}

// BibleConfig holds the settings of the enrich command.
type BibleConfig struct {
	CSVPath        string `json:"csv_path" yaml:"csv_path"`
	OutputPath     string `json:"output_path" yaml:"output_path"`
	WordsPerBook   int    `json:"words_per_book" yaml:"words_per_book"`
	WordsPerPuzzle int    `json:"words_per_puzzle" yaml:"words_per_puzzle"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Site      *SiteConfig                `json:"site_config" yaml:"site_config"`
	Schedule  *ScheduleConfig            `json:"schedule_config" yaml:"schedule_config"`
	Export    *ExportConfig              `json:"export_config" yaml:"export_config"`
	Templates *templating.TemplateConfig `json:"template_config" yaml:"template_config"`
	Bible     *BibleConfig               `json:"bible_config" yaml:"bible_config"`
}

// DefaultSiteConfig creates a site configuration with default values.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		Config:           site.DefaultConfig(),
		DataPath:         "data.js",
		SchedulePath:     "posts_schedule.json",
		ManifestPath:     "published_manifest.json",
		ManifestStore:    "json",
		ManifestDatabase: "crossero_manifest.db",
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// DefaultScheduleConfig creates a schedule configuration with default values.
func DefaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		Start:     "2026-02-20",
		MinPerDay: 1,
		MaxPerDay: 1,
	}
}

// DefaultExportConfig creates an export configuration with default values.
func DefaultExportConfig() *ExportConfig {
	return &ExportConfig{
		BrowserConfig: export.BrowserConfig{
			Headless:  true,
			NoSandbox: true,
			PlayPage:  "play2.html",
			TimeoutMs: 15000,
		},
		RequireBrowser: true,
		ImagesDir:      "images/puzzles",
		GridSize:       420,
		GridCells:      15,
	}
}

// DefaultBibleConfig creates an enrichment configuration with default values.
func DefaultBibleConfig() *BibleConfig {
	return &BibleConfig{
		CSVPath:        "BIBLE.csv",
		OutputPath:     "bible_extra_words.js",
		WordsPerBook:   60,
		WordsPerPuzzle: 15,
	}
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	tc := templating.DefaultConfig()
	return &Config{
		Site:      DefaultSiteConfig(),
		Schedule:  DefaultScheduleConfig(),
		Export:    DefaultExportConfig(),
		Templates: &tc,
		Bible:     DefaultBibleConfig(),
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func marshalConfig(path string, config *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(config)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(config); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadConfig reads the configuration from a JSON or YAML file at the given path,
// chosen by extension. If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = marshalConfig(path, config)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The run can still go ahead with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, config.Validate()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate fills sections missing from the file with defaults and rejects values the
// commands cannot work with.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Site == nil {
		c.Site = def.Site
	}
	if c.Schedule == nil {
		c.Schedule = def.Schedule
	}
	if c.Export == nil {
		c.Export = def.Export
	}
	if c.Templates == nil {
		c.Templates = def.Templates
	}
	if c.Bible == nil {
		c.Bible = def.Bible
	}

	if _, err := schedule.ParseDate(c.Schedule.Start); err != nil {
		return fmt.Errorf("invalid schedule start date: %w", err)
	}
	if c.Schedule.MinPerDay < 1 || c.Schedule.MaxPerDay < c.Schedule.MinPerDay {
		return fmt.Errorf("invalid posts per day range [%d, %d]", c.Schedule.MinPerDay, c.Schedule.MaxPerDay)
	}
	switch c.Site.ManifestStore {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown manifest store %q, want json or sqlite", c.Site.ManifestStore)
	}
	if strings.TrimSpace(c.Site.Domain) == "" {
		return fmt.Errorf("site domain must not be empty")
	}
	c.Templates.Domain = c.Site.Domain
	return nil
}

// StartDate returns the parsed schedule start date.
func (c *ScheduleConfig) StartDate() time.Time {
	t, _ := schedule.ParseDate(c.Start)
	return t
}
