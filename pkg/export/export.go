// Package export produces the puzzle image and the clue lists shown on a post.
//
// The primary exporter drives a headless browser through the site's own play page, which
// lays out the grid, renders it to a PNG and exposes the numbered clues and a share link.
// When no browser is available a placeholder grid is drawn instead.
package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnavailable is returned by Available when an exporter cannot run on this host.
var ErrUnavailable = errors.New("exporter unavailable")

// Exporter turns a puzzle id into an image file and, when it can, the laid-out clues.
type Exporter interface {
	// Name identifies the exporter in logs.
	Name() string
	// Available reports whether the exporter can run. It wraps ErrUnavailable when not.
	Available(ctx context.Context) error
	// Export writes the image for puzzle id as <name>.png. hintCount is the number of
	// clues of the puzzle, used by exporters that cannot lay out the grid themselves.
	Export(ctx context.Context, id, name string, hintCount int) (*Result, error)
}

// Result is the output of a successful export.
type Result struct {
	// ImagePath is the file the image was written to.
	ImagePath string
	// ImageName is the image file name relative to the images directory.
	ImageName string

	// Across and Down are the clue texts in grid order, when the exporter laid out the
	// grid. Both are nil for placeholder images.
	Across []string
	Down   []string

	// Numbered holds the clues with the numbers printed in the grid.
	Numbered *NumberedHints

	// AnswerURL opens the same grid in the play page. Empty when unknown.
	AnswerURL string
}

// HasLayout reports whether the result carries clue lists from a real layout.
func (r *Result) HasLayout() bool {
	return r != nil && (r.Numbered != nil || r.Across != nil || r.Down != nil)
}

// NumberedHint is one clue with its grid number.
type NumberedHint struct {
	Num  int    `json:"n"`
	Clue string `json:"c"`
}

// NumberedHints are the clues of a laid-out grid split by orientation.
type NumberedHints struct {
	Across []NumberedHint
	Down   []NumberedHint
}

// Len returns the total number of clues.
func (h *NumberedHints) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Across) + len(h.Down)
}

// rawHint accepts both the short and the long key spelling of the play page.
type rawHint struct {
	N    *int   `json:"n"`
	Num  *int   `json:"num"`
	C    string `json:"c"`
	Clue string `json:"clue"`
}

func (r rawHint) normalize() NumberedHint {
	h := NumberedHint{Clue: r.C}
	if h.Clue == "" {
		h.Clue = r.Clue
	}
	switch {
	case r.N != nil:
		h.Num = *r.N
	case r.Num != nil:
		h.Num = *r.Num
	}
	return h
}

type rawHints struct {
	A      []json.RawMessage `json:"a"`
	Across []json.RawMessage `json:"across"`
	D      []json.RawMessage `json:"d"`
	Down   []json.RawMessage `json:"down"`
}

// ParseNumberedHints decodes the hint payload published by the play page:
// {"a":[{"n":1,"c":"..."}],"d":[...]}, with "across"/"down", "num" and "clue" accepted
// as alternative keys. Entries that are not objects are skipped.
func ParseNumberedHints(raw string) (*NumberedHints, error) {
	var in rawHints
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("failed to decode hint payload: %w", err)
	}
	across, down := in.A, in.D
	if len(across) == 0 {
		across = in.Across
	}
	if len(down) == 0 {
		down = in.Down
	}
	return &NumberedHints{Across: decodeHints(across), Down: decodeHints(down)}, nil
}

func decodeHints(list []json.RawMessage) []NumberedHint {
	out := make([]NumberedHint, 0, len(list))
	for _, item := range list {
		var h rawHint
		if err := json.Unmarshal(item, &h); err != nil {
			continue
		}
		out = append(out, h.normalize())
	}
	return out
}

// AnswerURL builds the share link of a laid-out grid:
// {domain}/play2.html?play=1&g=<grid>&h1=<across>&h2=<down>. The clue lists travel as
// unpadded URL-safe base64 of their JSON encoding. hints may be nil, in which case only
// the grid is linked. An empty grid yields an empty link.
func AnswerURL(domain, grid string, hints *NumberedHints) (string, error) {
	if grid == "" {
		return "", nil
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(domain, "/"))
	b.WriteString("/play2.html?play=1&g=")
	b.WriteString(url.QueryEscape(grid))
	if hints == nil {
		return b.String(), nil
	}
	across, err := encodeHintList(hints.Across)
	if err != nil {
		return "", err
	}
	down, err := encodeHintList(hints.Down)
	if err != nil {
		return "", err
	}
	b.WriteString("&h1=")
	b.WriteString(across)
	b.WriteString("&h2=")
	b.WriteString(down)
	return b.String(), nil
}

func encodeHintList(list []NumberedHint) (string, error) {
	if list == nil {
		list = []NumberedHint{}
	}
	data, err := json.MarshalNoEscape(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode hints: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodePNGDataURL returns the bytes of a "data:image/png;base64," URL.
func DecodePNGDataURL(dataURL string) ([]byte, error) {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		return nil, errors.New("export did not produce a PNG data URL")
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[len(prefix):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG data URL: %w", err)
	}
	return data, nil
}
