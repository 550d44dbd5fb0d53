// Package layout renders autoscaled, per-word-colorable text blocks as
// transparent rasters. It is a pure function of (text, font, size, highlight
// set, max width) and has no knowledge of the compositors that consume it.
package layout

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// Fixed advance between words and vertical gap between lines, in pixels.
	WordSpace = 15
	LineGap   = 12
)

// trailingPunct is stripped from a token before highlight matching.
const trailingPunct = ",.!?;:"

var (
	// HighlightColor is the brand magenta used for matched words.
	HighlightColor = color.RGBA{R: 0xec, G: 0x00, B: 0x8c, A: 0xff}
	baseColor      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// AutoSize picks a font size for a text of the given length: texts up to
// ideal render at max, longer texts shrink linearly and clamp at min. The
// shrunk size is the floor of max - (length-ideal)*(max-min)/ideal, so the
// division runs over the full expression, not the quotient alone.
func AutoSize(length, min, max, ideal int) int {
	if length <= ideal {
		return max
	}
	size := (max*ideal - (length-ideal)*(max-min)) / ideal
	if size < min {
		return min
	}
	return size
}

// ParseHighlights splits a comma-separated highlight field into an uppercased
// token set. Empty tokens are dropped.
func ParseHighlights(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		set[strings.ToUpper(tok)] = true
	}
	return set
}

// normalizeWord strips trailing punctuation and uppercases, so that
// "Hello!" matches the highlight token "HELLO".
func normalizeWord(w string) string {
	return strings.ToUpper(strings.TrimRight(w, trailingPunct))
}

func wordColor(w string, highlights map[string]bool) color.RGBA {
	if highlights[normalizeWord(w)] {
		return HighlightColor
	}
	return baseColor
}

// Render rasterizes text with the font at the given pixel size.
func Render(text string, f *Font, size int, highlights map[string]bool, maxWidth int) (*image.RGBA, error) {
	face, err := f.Face(size)
	if err != nil {
		return nil, err
	}
	return RenderFace(text, face, highlights, maxWidth)
}

// RenderFace lays text out into a transparent raster of exactly maxWidth
// pixels: words are measured tightly, packed greedily onto lines with a fixed
// WordSpace advance, and each line is pasted horizontally centered with
// LineGap between lines. A single word wider than maxWidth keeps its line but
// is clipped at the canvas edges.
func RenderFace(text string, face font.Face, highlights map[string]bool, maxWidth int) (*image.RGBA, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no words to lay out")
	}
	if maxWidth <= 0 {
		return nil, fmt.Errorf("invalid max width %d", maxWidth)
	}

	words := make([]wordRaster, 0, len(fields))
	for _, w := range fields {
		words = append(words, rasterizeWord(w, face, wordColor(w, highlights)))
	}

	lines := packLines(words, maxWidth)

	totalH := 0
	for _, ln := range lines {
		totalH += ln.height
	}
	totalH += (len(lines) - 1) * LineGap

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, totalH))
	y := 0
	for _, ln := range lines {
		x := (maxWidth - ln.width) / 2
		for _, w := range ln.words {
			r := image.Rect(x, y, x+w.width, y+w.height)
			draw.Draw(dst, r, w.img, image.Point{}, draw.Over)
			x += w.width + WordSpace
		}
		y += ln.height + LineGap
	}
	return dst, nil
}

type wordRaster struct {
	img    *image.RGBA
	width  int
	height int
}

type line struct {
	words  []wordRaster
	width  int
	height int
}

// rasterizeWord draws a single word into a tight transparent raster.
func rasterizeWord(w string, face font.Face, col color.RGBA) wordRaster {
	bounds, _ := font.BoundString(face, w)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	d.DrawString(w)
	return wordRaster{img: img, width: width, height: height}
}

// packLines fills lines greedily: a word joins the current line when the line
// width plus the word (and its leading space) stays within maxWidth. The
// first word of a line is always placed, so oversized words are never
// re-wrapped.
func packLines(words []wordRaster, maxWidth int) []line {
	var lines []line
	var cur line
	for _, w := range words {
		if len(cur.words) == 0 {
			cur = line{words: []wordRaster{w}, width: w.width, height: w.height}
			continue
		}
		if cur.width+WordSpace+w.width <= maxWidth {
			cur.words = append(cur.words, w)
			cur.width += WordSpace + w.width
			if w.height > cur.height {
				cur.height = w.height
			}
			continue
		}
		lines = append(lines, cur)
		cur = line{words: []wordRaster{w}, width: w.width, height: w.height}
	}
	return append(lines, cur)
}
