package templating

import "html/template"

// PostPage is the data passed to PostTemplate.
type PostPage struct {
	Title     string
	Book      string
	Keyword   string
	Slug      string
	Date      string // YYYY-MM-DD
	Category  string
	HintCount int

	// Intro is trusted markup; callers escape any interpolated values.
	Intro template.HTML

	// ImagePath is relative to the posts directory, ImageURL absolute.
	ImagePath string
	ImageURL  string

	Across []string
	Down   []string

	// AnswerURL opens the same puzzle when SamePuzzle is set, otherwise a puzzle on
	// the same topic.
	AnswerURL  string
	SamePuzzle bool
}

// IndexPage is the data passed to IndexTemplate.
type IndexPage struct {
	Posts []IndexRow
}

// IndexRow is one post on the board listing.
type IndexRow struct {
	Slug  string
	Title string
	Date  string // YYYY-MM-DD
}
