package bible

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `book,chapter,verse,BIBLETEXT
0,10,1,창세기
0,10,8.0,룻기
1,0,0,"개역한글판 성경"
1,1,1,"태초에 하나님이 천지를 창조하시니라"
1,1,2,땅이 혼돈하고 공허하며 흑암이 깊음 위에 있고 하나님의 신은 수면에 운행하시니라
1,1,3,하나님이 가라사대 빛이 있으라 하시매 빛이 있었고
x,1,4,broken row
8,1,1,사사들의 치리하던 때에 그 땅에 흉년이 드니라
2,1,1,short
`

func TestParseCSV(t *testing.T) {
	c, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "창세기", c.BookNames[1])
	assert.Equal(t, "룻기", c.BookNames[8])
	require.Len(t, c.Verses[1], 3, "banner and broken rows are skipped")
	assert.Equal(t, "태초에 하나님이 천지를 창조하시니라", c.Verses[1][0].Text)
	assert.Equal(t, 3, c.Verses[1][2].Verse)

	_, err = ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestExtractWords(t *testing.T) {
	verses := []Verse{
		{1, 1, "태초에 하나님이 천지를 창조하시니라"},
		{1, 3, "하나님이 가라사대 빛이 있으라 하시매 빛이 있었고"},
		{1, 4, "그 빛이 하나님의 보시기에 좋았더라"},
	}
	words := ExtractWords(verses, 3, 2, 5)
	require.Len(t, words, 3)
	assert.Equal(t, "빛이", words[0].Answer, "most frequent first")
	assert.Equal(t, "말씀: 하나님이 가라사대 빛이 있으라 하시매 빛이 있었고…", words[0].Clue)
	assert.Equal(t, "하나님이", words[1].Answer)
	assert.Equal(t, "태초에 하나님이 천지를 창조하시니라", words[1].Clue, "short verses are quoted as is")
	assert.Equal(t, "태초에", words[2].Answer, "ties keep first appearance")

	for _, w := range ExtractWords(verses, -1, 2, 5) {
		assert.NotEqual(t, "하나님의", w.Answer, "stop words are dropped")
	}

	long := []Verse{{1, 1, "가나다라마바사"}}
	got := ExtractWords(long, 10, 2, 5)
	require.Len(t, got, 2, "tokens are cut greedily at five syllables")
	assert.Equal(t, "가나다라마", got[0].Answer)
	assert.Equal(t, "바사", got[1].Answer)
	assert.Equal(t, "가나다라마바사", got[0].Clue)
}

func TestClueSnippet(t *testing.T) {
	text := strings.Repeat("가", 60)
	clue := clueFor(text)
	assert.Equal(t, "말씀: "+strings.Repeat("가", 50)+"…", clue)
}

func TestBookFromTitle(t *testing.T) {
	assert.Equal(t, "창세기", BookFromTitle("창세기: 천지창조"))
	assert.Equal(t, "요한계시록", BookFromTitle("요한계시록 일곱 교회"))
	assert.Equal(t, "", BookFromTitle("주일학교 퀴즈"))
}

func TestEnrichAndWrite(t *testing.T) {
	puzzles := []puzzledata.Puzzle{
		{ID: "gen1", Title: "창세기: 천지창조", Words: []puzzledata.Word{{Clue: "c", Answer: "빛이"}}},
		{ID: "misc", Title: "주일학교 퀴즈"},
		{ID: "ruth", Title: "룻기: 이삭줍기"},
	}
	byBook := map[string][]Candidate{
		"창세기": {{Answer: "빛이", Clue: "a"}, {Answer: "천지를", Clue: "b"}, {Answer: "천지를", Clue: "dup"}, {Answer: "태초에", Clue: "c"}},
	}
	add := Enrich(puzzles, byBook, 1)
	assert.Equal(t, map[string][]Candidate{"gen1": {{Answer: "천지를", Clue: "b"}}}, add)

	add = Enrich(puzzles, byBook, 15)
	assert.Equal(t, []Candidate{{Answer: "천지를", Clue: "b"}, {Answer: "태초에", Clue: "c"}}, add["gen1"])
	n, w := Count(add)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, w)

	path := filepath.Join(t.TempDir(), "data_bible_extra.js")
	require.NoError(t, WriteExtraJS(path, add))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "/** BIBLE.csv"))
	assert.True(t, strings.HasSuffix(text, "};\n"))

	body := strings.TrimSuffix(text[strings.Index(text, "= ")+2:], ";\n")
	var decoded map[string][]Candidate
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, add, decoded)
	assert.Contains(t, text, `"answer": "천지를"`)
}
