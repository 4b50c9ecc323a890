package templating

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// splitDate breaks a YYYY-MM-DD string into its numeric parts.
func splitDate(date string) (y, m, d int, ok bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if y, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if m, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if d, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return y, m, d, true
}

// koreanDate formats 2026-02-05 as "2026년 2월 5일". Unparseable input is returned unchanged.
func koreanDate(date string) string {
	y, m, d, ok := splitDate(date)
	if !ok {
		return date
	}
	return strconv.Itoa(y) + "년 " + strconv.Itoa(m) + "월 " + strconv.Itoa(d) + "일"
}

// koreanDatePadded formats 2026-02-05 as "2026년 02월 05일".
func koreanDatePadded(date string) string {
	y, m, d, ok := splitDate(date)
	if !ok {
		return date
	}
	pad := func(n int) string {
		if n < 10 {
			return "0" + strconv.Itoa(n)
		}
		return strconv.Itoa(n)
	}
	return strconv.Itoa(y) + "년 " + pad(m) + "월 " + pad(d) + "일"
}

func (tm *TemplateManager) siteName() string {
	return tm.config.SiteName
}

func (tm *TemplateManager) domain() string {
	return strings.TrimRight(tm.config.Domain, "/")
}

func (tm *TemplateManager) copyrightYear() int {
	return tm.config.CopyrightYear
}

// absURL joins a site-relative path onto the configured domain.
func (tm *TemplateManager) absURL(path string) string {
	return tm.domain() + "/" + strings.TrimLeft(path, "/")
}

type ldOrganization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type ldArticle struct {
	Context          string         `json:"@context"`
	Type             string         `json:"@type"`
	Headline         string         `json:"headline"`
	DatePublished    string         `json:"datePublished"`
	Author           ldOrganization `json:"author"`
	Publisher        ldOrganization `json:"publisher"`
	MainEntityOfPage string         `json:"mainEntityOfPage"`
	Image            string         `json:"image,omitempty"`
}

// articleLD renders the schema.org Article object of a post for a JSON-LD script block.
func (tm *TemplateManager) articleLD(p PostPage) (template.JS, error) {
	org := ldOrganization{Type: "Organization", Name: tm.config.SiteName}
	data, err := json.Marshal(ldArticle{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         p.Title,
		DatePublished:    p.Date,
		Author:           org,
		Publisher:        org,
		MainEntityOfPage: tm.absURL("posts/" + p.Slug + ".html"),
		Image:            p.ImageURL,
	})
	if err != nil {
		return "", err
	}
	return template.JS(data), nil
}
