package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/CTAG07/Crossero/pkg/manifest"
	"github.com/CTAG07/Crossero/pkg/templating"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap renders the posts sitemap, newest entry first.
func (s *Site) Sitemap(entries []manifest.Entry) ([]byte, error) {
	set := urlSet{XMLNS: sitemapNS}
	for _, e := range manifest.SortNewestFirst(entries) {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.absURL("posts/" + e.Slug + ".html"),
			LastMod:    e.Date,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Index renders the post board, newest entry first.
func (s *Site) Index(entries []manifest.Entry) ([]byte, error) {
	var page templating.IndexPage
	for _, e := range manifest.SortNewestFirst(entries) {
		page.Posts = append(page.Posts, templating.IndexRow{Slug: e.Slug, Title: e.Title, Date: e.Date})
	}
	var buf bytes.Buffer
	if err := s.tm.Execute(&buf, templating.IndexTemplate, page); err != nil {
		return nil, fmt.Errorf("failed to render post index: %w", err)
	}
	return buf.Bytes(), nil
}

// Rebuild rewrites the sitemap and the post board from the manifest entries.
func (s *Site) Rebuild(entries []manifest.Entry) error {
	sitemap, err := s.Sitemap(entries)
	if err != nil {
		return err
	}
	index, err := s.Index(entries)
	if err != nil {
		return err
	}
	if err = writeFile(s.cfg.SitemapPath, sitemap); err != nil {
		return err
	}
	indexPath := filepath.Join(s.cfg.PostsDir, "index.html")
	if err = writeFile(indexPath, index); err != nil {
		return err
	}
	s.logger.Info("Rebuilt post index and sitemap", "posts", len(entries), "sitemap", s.cfg.SitemapPath, "index", indexPath)
	return nil
}
