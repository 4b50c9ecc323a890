package puzzledata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ErrUnmatched is wrapped by skip reasons for records whose opening brace is never closed.
var ErrUnmatched = errors.New("unmatched delimiter")

// recordLine finds a line that starts a record, used to resume after a lexical error.
var recordLine = regexp.MustCompile(`(?m)^[ \t]*["'][A-Za-z0-9_]+["'][ \t]*:[ \t]*\{`)

// Skipped records a candidate record that was dropped during extraction.
type Skipped struct {
	ID     string
	Offset int
	Err    error
}

// ExtractReport is the outcome of scanning a source text.
type ExtractReport struct {
	// Puzzles are the well-formed records in source order, duplicates included.
	Puzzles []Puzzle
	Skipped []Skipped
	// LexErr is the first lexical error. Scanning resumed at the next record line
	// after it.
	LexErr error
}

// Extract scans src for `"<id>": { ... }` records and returns the well-formed ones.
// A record whose brace is never closed is skipped and the scan resumes just past its
// opening brace. A record whose body cannot be read is skipped and the scan resumes
// after its closing brace. A record containing a lexical error is skipped and lexing
// resumes at the next line that starts a record.
func Extract(src string) *ExtractReport {
	report := &ExtractReport{}
	pos := 0
	for {
		toks, err := tokenizeFrom(src, pos)
		report.scan(src, toks, err)
		if err == nil {
			return report
		}
		if report.LexErr == nil {
			report.LexErr = err
		}
		var se *SyntaxError
		if !errors.As(err, &se) {
			return report
		}
		next := resumeOffset(src, se.Offset)
		if next < 0 {
			return report
		}
		pos = next
	}
}

// resumeOffset returns the start of the first record line after the line holding
// offset, or -1.
func resumeOffset(src string, offset int) int {
	nl := strings.IndexByte(src[offset:], '\n')
	if nl < 0 {
		return -1
	}
	from := offset + nl + 1
	loc := recordLine.FindStringIndex(src[from:])
	if loc == nil {
		return -1
	}
	return from + loc[0]
}

// scan extracts the records of one token run. lexErr is the error that ended the run,
// if any: the first record left open by it is reported with that error and ends the run.
func (r *ExtractReport) scan(src string, toks []Token, lexErr error) {
	i := 0
	for i+2 < len(toks) {
		key := toks[i]
		if key.Kind != TokenString || !idPattern.MatchString(key.Value) || !toks[i+1].Is(':') || !toks[i+2].Is('{') {
			i++
			continue
		}
		open := i + 2
		end := MatchToken(toks, open, '{', '}')
		if end == NotFound {
			if lexErr != nil {
				r.Skipped = append(r.Skipped, Skipped{ID: key.Value, Offset: key.Offset, Err: fmt.Errorf("record %q: %w", key.Value, lexErr)})
				return
			}
			r.Skipped = append(r.Skipped, Skipped{
				ID:     key.Value,
				Offset: key.Offset,
				Err:    fmt.Errorf("record %q: %w: %w", key.Value, ErrUnmatched, newSyntaxError(src, toks[open].Offset, "no matching '}'")),
			})
			i = open + 1
			continue
		}

		body, err := ReadValue(src, toks[open:end+1])
		if err != nil {
			r.Skipped = append(r.Skipped, Skipped{ID: key.Value, Offset: key.Offset, Err: fmt.Errorf("record %q: %w", key.Value, err)})
			i = end + 1
			continue
		}
		r.Puzzles = append(r.Puzzles, puzzleFrom(key.Value, body))
		i = end + 1
	}
}

func puzzleFrom(id string, body Value) Puzzle {
	p := Puzzle{ID: id, Title: id, Category: DefaultCategory}
	if title, ok := FindString(body, "title"); ok {
		p.Title = title
	}
	if category, ok := FindString(body, "category"); ok {
		p.Category = category
	}
	if items, ok := FindArray(body, "allWords"); ok {
		for _, item := range items {
			obj, isObj := item.(*Object)
			if !isObj {
				continue
			}
			clue, hasClue := obj.String("clue")
			answer, hasAnswer := obj.String("answer")
			if !hasClue || !hasAnswer {
				continue
			}
			p.Words = append(p.Words, Word{Clue: clue, Answer: answer})
		}
	}
	p.Hints = numberedHints(p.Words)
	return p
}
