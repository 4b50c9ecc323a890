// Package bible mines a Bible text corpus (BIBLE.csv, 개역한글) for extra crossword words.
//
// Words are 2 to 5 syllable Hangul tokens of a book, ranked by how often they occur,
// and clued with the first verse they appear in. The result is written as a JavaScript
// patch that the play page merges into each puzzle's word list.
package bible

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const bookCount = 66

// Verse is one verse of a book.
type Verse struct {
	Chapter int
	Verse   int
	Text    string
}

// Corpus is a parsed BIBLE.csv.
type Corpus struct {
	// BookNames is indexed by book number, 1 to 66. Index 0 is unused.
	BookNames [bookCount + 1]string
	// Verses holds the verses of each book number in file order.
	Verses map[int][]Verse
}

// parseNumber accepts "3" as well as "3.0", as spreadsheet exports write both.
func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ParseCSV reads rows of book,chapter,verse,text after a header row. Book 0, chapter 10
// carries the book names in verses 1 to 66. Rows that are short, have non-numeric
// positions or hold the translation banner are skipped.
func ParseCSV(r io.Reader) (*Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("bible csv is empty")
		}
		return nil, fmt.Errorf("failed to read bible csv header: %w", err)
	}

	c := &Corpus{Verses: make(map[int][]Verse)}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bible csv: %w", err)
		}
		if len(row) < 4 {
			continue
		}
		book, err1 := parseNumber(row[0])
		chapter, err2 := parseNumber(row[1])
		verse, err3 := parseNumber(row[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		text := strings.Trim(strings.TrimSpace(row[3]), `"`)

		switch {
		case book == 0 && chapter == 10 && verse >= 1 && verse <= bookCount:
			c.BookNames[verse] = text
		case book >= 1 && book <= bookCount && text != "" && !strings.HasPrefix(text, "개역한글"):
			c.Verses[book] = append(c.Verses[book], Verse{Chapter: chapter, Verse: verse, Text: text})
		}
	}
	return c, nil
}

// LoadCSV parses the corpus file at path.
func LoadCSV(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bible csv: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return ParseCSV(f)
}

// WordsByBook extracts up to limit candidates for every named book that has verses.
func (c *Corpus) WordsByBook(limit int) map[string][]Candidate {
	out := make(map[string][]Candidate)
	for id := 1; id <= bookCount; id++ {
		name := c.BookNames[id]
		verses := c.Verses[id]
		if name == "" || len(verses) == 0 {
			continue
		}
		out[name] = ExtractWords(verses, limit, 2, 5)
	}
	return out
}
