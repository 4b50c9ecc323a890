package bible

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Candidate is an extra word for a puzzle.
type Candidate struct {
	Answer string `json:"answer"`
	Clue   string `json:"clue"`
}

var hangulToken = regexp.MustCompile(`[가-힣]{2,5}`)

// stopWords are particles, endings and filler tokens that make poor answers.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`에 을 를 이 가 은 는 의 로 으로 와 과 에서 에게 한 하다 하시 되어 되어서
		그리고 그러나 하나님의 그 저 것 수 등 및 또한 있다 없다 있다고 있다니 있다는`) {
		stopWords[w] = struct{}{}
	}
}

const (
	snippetRunes   = 50
	longClueRunes  = 20
	longCluePrefix = "말씀: "
)

// clueFor quotes the start of a verse, marking longer quotes as an excerpt.
func clueFor(text string) string {
	snippet := text
	if r := []rune(text); len(r) > snippetRunes {
		snippet = string(r[:snippetRunes])
	}
	if utf8.RuneCountInString(snippet) >= longClueRunes {
		return longCluePrefix + snippet + "…"
	}
	return snippet
}

// ExtractWords ranks the Hangul tokens of verses by frequency, ties broken by first
// appearance, and returns at most limit of them whose syllable count is within
// [minLen, maxLen]. Each clue is the first verse the word occurs in.
func ExtractWords(verses []Verse, limit, minLen, maxLen int) []Candidate {
	type stat struct {
		word  string
		count int
		first string
	}
	var order []*stat
	seen := make(map[string]*stat)

	for _, v := range verses {
		for _, tok := range hangulToken.FindAllString(v.Text, -1) {
			n := utf8.RuneCountInString(tok)
			if n < minLen || n > maxLen {
				continue
			}
			if _, skip := stopWords[tok]; skip {
				continue
			}
			s, ok := seen[tok]
			if !ok {
				s = &stat{word: tok, first: v.Text}
				seen[tok] = s
				order = append(order, s)
			}
			s.count++
		}
	}

	slices.SortStableFunc(order, func(a, b *stat) int {
		return b.count - a.count
	})
	if limit >= 0 && len(order) > limit {
		order = order[:limit]
	}
	out := make([]Candidate, 0, len(order))
	for _, s := range order {
		out = append(out, Candidate{Answer: s.word, Clue: clueFor(s.first)})
	}
	return out
}
