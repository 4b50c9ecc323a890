package site

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugRunes      = 60
	maxImageSlugRunes = 50
	fallbackSlug      = "puzzle"
	imageSlugSuffix   = "-십자가로세로"
)

func isHangul(r rune) bool {
	return r >= '가' && r <= '힣'
}

func keepSlugRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || unicode.IsSpace(r) || isHangul(r)
}

// slugify turns a title into a file name stem: colons become spaces, characters other
// than letters, digits, underscores, hyphens and whitespace are dropped, each run of
// whitespace becomes a single hyphen and leading or trailing hyphens are trimmed.
// The result is cut to limit runes.
func slugify(title string, limit int) string {
	s := norm.NFC.String(title)
	s = strings.ReplaceAll(s, ":", " ")
	s = strings.TrimSpace(s)

	var b strings.Builder
	space := false
	for _, r := range s {
		if !keepSlugRune(r) {
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte('-')
			space = false
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "-")
	if runes := []rune(out); len(runes) > limit {
		out = string(runes[:limit])
	}
	return out
}

// Slugify derives the post slug of a title. Titles without any usable character give
// "puzzle".
func Slugify(title string) string {
	if s := slugify(title, maxSlugRunes); s != "" {
		return s
	}
	return fallbackSlug
}

// ImageSlug derives the image file stem of a title, e.g. "출애굽기-모세의-소명-십자가로세로".
func ImageSlug(title string) string {
	s := slugify(title, maxImageSlugRunes)
	if s == "" {
		s = fallbackSlug
	}
	return s + imageSlugSuffix
}

// UniqueImageSlug derives the image file stem of a post published under slug. The
// disambiguating suffix UniqueSlug added to the title's slug is carried over, so posts
// sharing a title get distinct images.
func UniqueImageSlug(title, slug string) string {
	stem := ImageSlug(title)
	suffix, ok := strings.CutPrefix(slug, Slugify(title))
	if !ok || suffix == "" {
		return stem
	}
	return strings.TrimSuffix(stem, imageSlugSuffix) + suffix + imageSlugSuffix
}

// UniqueSlug returns base when it is free. Otherwise it appends the puzzle id, and when
// that is taken as well, a counter.
func UniqueSlug(base, id string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	slug := base + "-" + id
	for n := 2; taken(slug); n++ {
		slug = base + "-" + id + "-" + strconv.Itoa(n)
	}
	return slug
}

// DisplayTitle is the title shown for a puzzle: the trimmed title, or "{book} 퀴즈"
// when the title is blank.
func DisplayTitle(p puzzledata.Puzzle) string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return strings.TrimSpace(p.Book() + " 퀴즈")
}
