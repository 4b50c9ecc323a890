// Package site renders the published output of the blog: post pages, the post board
// (posts/index.html) and the posts sitemap. The board and the sitemap are projections of
// the publish manifest and are rewritten from it as a whole on every run.
package site

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CTAG07/Crossero/pkg/export"
	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/CTAG07/Crossero/pkg/templating"
	"github.com/natefinch/atomic"
)

// Config locates the site output.
type Config struct {
	// Domain is the public origin, e.g. https://crossero.com.
	Domain string `json:"domain" yaml:"domain"`
	// PostsDir receives <slug>.html and index.html.
	PostsDir string `json:"posts_dir" yaml:"posts_dir"`
	// SitemapPath is the posts sitemap file.
	SitemapPath string `json:"sitemap_path" yaml:"sitemap_path"`
	// ImageURLPath is the site-relative directory puzzle images are served from.
	ImageURLPath string `json:"image_url_path" yaml:"image_url_path"`
	// DefaultImage is the site-relative image used when no puzzle image exists.
	DefaultImage string `json:"default_image" yaml:"default_image"`
	// TopicPage is the play page that opens a random puzzle of a given id's topic.
	TopicPage string `json:"topic_page" yaml:"topic_page"`
}

// DefaultConfig returns the production layout.
func DefaultConfig() Config {
	return Config{
		Domain:       "https://crossero.com",
		PostsDir:     "posts",
		SitemapPath:  "posts.xml",
		ImageURLPath: "images/puzzles",
		DefaultImage: "images/og-image.png",
		TopicPage:    "play.html",
	}
}

// Site writes post pages and index artifacts.
type Site struct {
	logger *slog.Logger
	tm     *templating.TemplateManager
	cfg    Config
	copy   *Copywriter
}

// New creates a Site. rng drives keyword and intro selection; nil seeds randomly.
func New(logger *slog.Logger, tm *templating.TemplateManager, cfg Config, rng *rand.Rand) *Site {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Site{logger: logger, tm: tm, cfg: cfg, copy: NewCopywriter(rng)}
}

// Config returns the site configuration.
func (s *Site) Config() Config {
	return s.cfg
}

func (s *Site) absURL(p string) string {
	return strings.TrimRight(s.cfg.Domain, "/") + "/" + strings.TrimLeft(p, "/")
}

// PostPath returns the file a post with the given slug is written to.
func (s *Site) PostPath(slug string) string {
	return filepath.Join(s.cfg.PostsDir, slug+".html")
}

// numbered prefixes each clue with its 1-based position.
func numbered(clues []string) []string {
	out := make([]string, len(clues))
	for i, c := range clues {
		out[i] = strconv.Itoa(i+1) + ". " + c
	}
	return out
}

// splitClues divides the clues of a puzzle without a layout: the first half, rounded
// up, is listed as across.
func splitClues(words []puzzledata.Word) (across, down []string) {
	clues := make([]string, len(words))
	for i, w := range words {
		clues[i] = w.Clue
	}
	mid := (len(clues) + 1) / 2
	return clues[:mid], clues[mid:]
}

// hintLists picks the clue lists of a post and the hint count shown with them. Grid
// numbers from the exporter win over its plain lists, which win over splitting the
// puzzle's own clues.
func hintLists(p puzzledata.Puzzle, art *export.Result) (across, down []string, count int) {
	switch {
	case art != nil && art.Numbered != nil:
		for _, h := range art.Numbered.Across {
			across = append(across, strconv.Itoa(h.Num)+". "+h.Clue)
		}
		for _, h := range art.Numbered.Down {
			down = append(down, strconv.Itoa(h.Num)+". "+h.Clue)
		}
		return across, down, art.Numbered.Len()
	case art != nil && art.Across != nil && art.Down != nil:
		return numbered(art.Across), numbered(art.Down), len(art.Across) + len(art.Down)
	default:
		a, d := splitClues(p.Words)
		return numbered(a), numbered(d), len(p.Hints)
	}
}

// BuildPost assembles the page data of a post published on date under slug. art is
// the export result, nil when no image could be produced.
func (s *Site) BuildPost(p puzzledata.Puzzle, slug, date string, art *export.Result) templating.PostPage {
	book := p.Book()
	keyword := s.copy.Keyword(book)
	across, down, count := hintLists(p, art)

	category := p.Category
	if category == "" {
		category = puzzledata.DefaultCategory
	}
	if r := []rune(category); len(r) > 50 {
		category = string(r[:50])
	}

	page := templating.PostPage{
		Title:     DisplayTitle(p),
		Book:      book,
		Keyword:   keyword,
		Slug:      slug,
		Date:      date,
		Category:  category,
		HintCount: count,
		Intro:     s.copy.Intro(book, keyword, count),
		Across:    across,
		Down:      down,
	}

	image := s.cfg.DefaultImage
	if art != nil && art.ImageName != "" {
		image = path.Join(s.cfg.ImageURLPath, art.ImageName)
	}
	page.ImagePath = "../" + image
	page.ImageURL = s.absURL(image)

	if art != nil && art.AnswerURL != "" {
		page.AnswerURL = art.AnswerURL
		page.SamePuzzle = true
	} else {
		page.AnswerURL = s.absURL(s.cfg.TopicPage) + "?id=" + url.QueryEscape(p.ID)
	}
	return page
}

// RenderPost executes the post template.
func (s *Site) RenderPost(page templating.PostPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tm.Execute(&buf, templating.PostTemplate, page); err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", page.Slug, err)
	}
	return buf.Bytes(), nil
}

// RenderPostWith executes content, a raw template using the loaded partials, over page.
func (s *Site) RenderPostWith(content string, page templating.PostPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tm.ExecuteTemplateString(&buf, content, page); err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", page.Slug, err)
	}
	return buf.Bytes(), nil
}

// CheckTemplates fails unless the post and board templates are loaded.
func (s *Site) CheckTemplates() error {
	return s.tm.Require(templating.PostTemplate, templating.IndexTemplate)
}

// WritePost renders page and writes it to its post file, returning the path.
func (s *Site) WritePost(page templating.PostPage) (string, error) {
	data, err := s.RenderPost(page)
	if err != nil {
		return "", err
	}
	target := s.PostPath(page.Slug)
	if err = writeFile(target, data); err != nil {
		return "", err
	}
	s.logger.Debug("Wrote post", "path", target, "bytes", len(data))
	return target, nil
}

func writeFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
