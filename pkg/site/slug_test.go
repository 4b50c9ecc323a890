package site

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/CTAG07/Crossero/pkg/puzzledata"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"colon and spaces", "사도행전: 첫 순교자 스데반", "사도행전-첫-순교자-스데반"},
		{"punctuation dropped", "요한복음 3:16 (사랑)!", "요한복음-3-16-사랑"},
		{"hyphens trimmed", "-- 룻기 --", "룻기"},
		{"latin kept", "Genesis_1 Quiz", "Genesis_1-Quiz"},
		{"emoji only", "🙏✨", "puzzle"},
		{"empty", "   ", "puzzle"},
		{"decomposed hangul is composed", "\u1100\u1161", "가"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugLengthLimits(t *testing.T) {
	long := strings.Repeat("가나다 ", 40)
	if n := utf8.RuneCountInString(Slugify(long)); n != 60 {
		t.Errorf("slug has %d runes, want 60", n)
	}
	img := ImageSlug(long)
	if !strings.HasSuffix(img, "-십자가로세로") {
		t.Fatalf("image slug %q lacks suffix", img)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(img, "-십자가로세로")); n != 50 {
		t.Errorf("image slug stem has %d runes, want 50", n)
	}
	if got := ImageSlug("출애굽기: 모세의 소명"); got != "출애굽기-모세의-소명-십자가로세로" {
		t.Errorf("ImageSlug = %q", got)
	}
	if got := ImageSlug("!!"); got != "puzzle-십자가로세로" {
		t.Errorf("ImageSlug fallback = %q", got)
	}
}

func TestUniqueImageSlug(t *testing.T) {
	title := "창세기: 천지창조"
	cases := map[string]string{
		"창세기-천지창조":     "창세기-천지창조-십자가로세로",
		"창세기-천지창조-b":   "창세기-천지창조-b-십자가로세로",
		"창세기-천지창조-b-2": "창세기-천지창조-b-2-십자가로세로",
	}
	for slug, want := range cases {
		if got := UniqueImageSlug(title, slug); got != want {
			t.Errorf("UniqueImageSlug(%q) = %q, want %q", slug, got, want)
		}
	}
	if got := UniqueImageSlug("!!", "puzzle-x1"); got != "puzzle-x1-십자가로세로" {
		t.Errorf("fallback image slug = %q", got)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"창세기-천지창조": true}
	has := func(s string) bool { return taken[s] }

	if got := UniqueSlug("출애굽기", "b", has); got != "출애굽기" {
		t.Errorf("free slug changed to %q", got)
	}
	if got := UniqueSlug("창세기-천지창조", "b", has); got != "창세기-천지창조-b" {
		t.Errorf("collision gave %q", got)
	}
	taken["창세기-천지창조-b"] = true
	if got := UniqueSlug("창세기-천지창조", "b", has); got != "창세기-천지창조-b-2" {
		t.Errorf("second collision gave %q", got)
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := DisplayTitle(puzzledata.Puzzle{Title: "  창세기: 천지창조 "}); got != "창세기: 천지창조" {
		t.Errorf("DisplayTitle = %q", got)
	}
	if got := DisplayTitle(puzzledata.Puzzle{Title: ""}); got != "퀴즈" {
		t.Errorf("DisplayTitle of blank title = %q", got)
	}
}
