package site

import (
	"html"
	"html/template"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Keywords are the search phrases a post is tagged with, prefixed by the book name.
var Keywords = []string{
	"성경퀴즈", "가로세로 퀴즈", "말씀 퀴즈", "성경 퍼즐", "무료 성경퀴즈",
	"주일학교 퀴즈", "성경공부 자료", "낱말 퍼즐", "성경 퀴즈 문제",
}

// IntroTemplates are the opening paragraphs of a post. {book}, {keyword} and
// {hint_count} are substituted; the rest is trusted markup.
var IntroTemplates = []string{
	"{book}를 주제로 한 <strong>{keyword}</strong>입니다. {hint_count}개의 단어를 맞춰보세요! 가로세로 낱말 퍼즐 형식으로 {book}의 핵심 내용을 재미있게 복습할 수 있습니다.",
	"오늘은 {book}의 주요 내용을 담은 <strong>{keyword}</strong>를 준비했습니다. 총 {hint_count}개의 힌트가 있으며, 주일학교 교재나 성경공부 자료로 활용하기 좋습니다. 무료로 즐기는 {book} 가로세로 퍼즐을 지금 바로 풀어보세요!",
	"{book}의 말씀을 퀴즈로 배우는 <strong>{keyword}</strong>입니다. 가로 힌트와 세로 힌트를 보고 {hint_count}개의 단어를 맞춰보세요. 인쇄도 가능하고 정답 확인도 바로 되니 소그룹 모임이나 가정 예배 시간에도 활용하실 수 있습니다.",
	"무료로 즐기는 {book} <strong>{keyword}</strong>! {hint_count}개의 힌트로 구성된 가로세로 낱말 퍼즐입니다. PC와 모바일 모두 지원되며, 정답을 바로 확인할 수 있어 혼자서도 쉽게 풀 수 있습니다.",
}

// Copywriter picks the keyword and intro of a post.
type Copywriter struct {
	rng *rand.Rand
}

// NewCopywriter returns a Copywriter drawing from rng, or from a randomly seeded
// source when rng is nil.
func NewCopywriter(rng *rand.Rand) *Copywriter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Copywriter{rng: rng}
}

// Keyword returns "{book} {phrase}" for a random phrase.
func (c *Copywriter) Keyword(book string) string {
	return strings.TrimSpace(book + " " + Keywords[c.rng.IntN(len(Keywords))])
}

// Intro fills a random intro template.
func (c *Copywriter) Intro(book, keyword string, hintCount int) template.HTML {
	tmpl := IntroTemplates[c.rng.IntN(len(IntroTemplates))]
	r := strings.NewReplacer(
		"{book}", html.EscapeString(book),
		"{keyword}", html.EscapeString(keyword),
		"{hint_count}", strconv.Itoa(hintCount),
	)
	return template.HTML(r.Replace(tmpl))
}
