package puzzledata

import (
	"strconv"
	"strings"
)

// DefaultCategory is used when a record has no category field.
const DefaultCategory = "성경"

// Word is one clue/answer pair of a puzzle.
type Word struct {
	Clue   string `json:"clue"`
	Answer string `json:"answer"`
}

// Puzzle is one crossword record of the database.
type Puzzle struct {
	ID       string
	Title    string
	Category string
	// Hints are the display forms of the clues, "1. clue", in source order.
	Hints []string
	Words []Word
}

// Book returns the book name a puzzle title is about: the text before the first
// colon, or the first whitespace-separated token when there is no colon.
func (p Puzzle) Book() string {
	return BookOf(p.Title)
}

// BookOf applies the Book rule to an arbitrary title.
func BookOf(title string) string {
	if before, _, found := strings.Cut(title, ":"); found {
		return strings.TrimSpace(before)
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func numberedHints(words []Word) []string {
	hints := make([]string, 0, len(words))
	for i, w := range words {
		hints = append(hints, strconv.Itoa(i+1)+". "+w.Clue)
	}
	return hints
}
