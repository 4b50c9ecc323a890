package bible

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// BookNames lists the 66 books in canonical order, as they appear in puzzle titles.
var BookNames = []string{
	"창세기", "출애굽기", "레위기", "민수기", "신명기", "여호수아", "사사기", "룻기", "사무엘상", "사무엘하",
	"열왕기상", "열왕기하", "역대상", "역대하", "에스라", "느헤미야", "에스더", "욥기", "시편", "잠언",
	"전도서", "아가", "이사야", "예레미야", "예레미야애가", "에스겔", "다니엘", "호세아", "요엘", "아모스",
	"오바댜", "요나", "미가", "나훔", "하박국", "스바냐", "학개", "스가랴", "말라기",
	"마태복음", "마가복음", "누가복음", "요한복음", "사도행전", "로마서", "고린도전서", "고린도후서",
	"갈라디아서", "에베소서", "빌립보서", "골로새서", "데살로니가전서", "데살로니가후서", "디모데전서",
	"디모데후서", "디도서", "빌레몬", "히브리서", "야고보서", "베드로전서", "베드로후서", "요한일서",
	"요한이서", "요한삼서", "유다서", "요한계시록",
}

// BookFromTitle returns the book a puzzle is about: the text before a colon, or else the
// first book name, in canonical order, contained in the title. It returns "" when
// neither applies.
func BookFromTitle(title string) string {
	if before, _, found := strings.Cut(title, ":"); found {
		return strings.TrimSpace(before)
	}
	for _, name := range BookNames {
		if strings.Contains(title, name) {
			return name
		}
	}
	return ""
}

// Enrich picks up to perPuzzle candidates of each puzzle's book that are not already
// answers of the puzzle. Puzzles without a known book or without new words are absent
// from the result.
func Enrich(puzzles []puzzledata.Puzzle, wordsByBook map[string][]Candidate, perPuzzle int) map[string][]Candidate {
	out := make(map[string][]Candidate)
	for _, p := range puzzles {
		cands, ok := wordsByBook[BookFromTitle(p.Title)]
		if !ok {
			continue
		}
		used := make(map[string]struct{}, len(p.Words)+perPuzzle)
		for _, w := range p.Words {
			used[w.Answer] = struct{}{}
		}
		var added []Candidate
		for _, c := range cands {
			if len(added) >= perPuzzle {
				break
			}
			if _, dup := used[c.Answer]; dup {
				continue
			}
			used[c.Answer] = struct{}{}
			added = append(added, c)
		}
		if len(added) > 0 {
			out[p.ID] = added
		}
	}
	return out
}

const extraJSHeader = "/** BIBLE.csv에서 추출한 추가 단어. data.js 로드 후 각 퀴즈 allWords에 concat 하세요. */\n"

// RenderExtraJS renders the additions as the BIBLE_EXTRA_WORDS script, keyed by puzzle id.
func RenderExtraJS(additions map[string][]Candidate) ([]byte, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(additions); err != nil {
		return nil, fmt.Errorf("failed to encode extra words: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(extraJSHeader)
	buf.WriteString("const BIBLE_EXTRA_WORDS = ")
	buf.Write(bytes.TrimRight(body.Bytes(), "\n"))
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// WriteExtraJS writes the BIBLE_EXTRA_WORDS script to path.
func WriteExtraJS(path string, additions map[string][]Candidate) error {
	data, err := RenderExtraJS(additions)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Count returns the number of puzzles and words in additions.
func Count(additions map[string][]Candidate) (puzzles, words int) {
	for _, list := range additions {
		words += len(list)
	}
	return len(additions), words
}
