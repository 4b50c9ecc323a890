package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	gridLineColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	gridNumberColor = color.RGBA{R: 100, G: 100, B: 100, A: 255}
)

// GridExporter draws a blank grid with numbered cells. It has no knowledge of the
// puzzle layout, so its results carry no clue lists and no answer link.
type GridExporter struct {
	imagesDir string
	size      int
	cells     int
}

// NewGridExporter returns a GridExporter drawing size×size pixel images of cells×cells
// squares. Non-positive values select 420 pixels and 15 cells.
func NewGridExporter(imagesDir string, size, cells int) *GridExporter {
	if size <= 0 {
		size = 420
	}
	if cells <= 0 {
		cells = 15
	}
	return &GridExporter{imagesDir: imagesDir, size: size, cells: cells}
}

// Name implements Exporter.
func (g *GridExporter) Name() string { return "grid" }

// Available implements Exporter. Drawing needs nothing from the host.
func (g *GridExporter) Available(context.Context) error { return nil }

// Export implements Exporter.
func (g *GridExporter) Export(_ context.Context, _ string, name string, hintCount int) (*Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, g.Draw(hintCount)); err != nil {
		return nil, fmt.Errorf("failed to encode grid image: %w", err)
	}
	if err := os.MkdirAll(g.imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	imageName := name + ".png"
	path := filepath.Join(g.imagesDir, imageName)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return nil, fmt.Errorf("failed to write grid image: %w", err)
	}
	return &Result{ImagePath: path, ImageName: imageName}, nil
}

// Draw renders the grid. The first min(hintCount, 2*cells) cells, row by row, get their
// 1-based index printed in the top left corner.
func (g *GridExporter) Draw(hintCount int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	cell := g.size / g.cells
	for i := 0; i <= g.cells; i++ {
		p := i * cell
		if p >= g.size {
			p = g.size - 1
		}
		for t := 0; t < g.size; t++ {
			img.SetRGBA(p, t, gridLineColor)
			img.SetRGBA(t, p, gridLineColor)
		}
	}

	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(gridNumberColor), Face: face}
	n := min(hintCount, g.cells*2)
	for i := 0; i < n; i++ {
		row, col := i/g.cells, i%g.cells
		d.Dot = fixed.P(col*cell+2, row*cell+2+face.Ascent)
		d.DrawString(strconv.Itoa(i + 1))
	}
	return img
}
