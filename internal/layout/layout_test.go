package layout

import (
	"image"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

func TestAutoSizeBoundary(t *testing.T) {
	// Title rules: max=110, min=75, ideal=35.
	cases := []struct {
		length int
		want   int
	}{
		{1, 110},
		{35, 110},
		{36, 109},
		{70, 75},
		{105, 75}, // clamped
	}
	for _, tc := range cases {
		if got := AutoSize(tc.length, 75, 110, 35); got != tc.want {
			t.Errorf("AutoSize(%d) = %d, want %d", tc.length, got, tc.want)
		}
	}
}

func TestAutoSizeFloorsSubtitleSizes(t *testing.T) {
	// Subtitle rules: max=70, min=30, ideal=45. The shrink step 40/45 is not
	// a whole number, so these lengths expose the floor over the full
	// expression: 70 - (L-45)*40/45, floored.
	cases := []struct {
		length int
		want   int
	}{
		{45, 70},
		{53, 62}, // 70 - 8*40/45 = 62.888...
		{54, 62}, // exact: 70 - 9*40/45 = 62
		{60, 56}, // 70 - 15*40/45 = 56.666...
		{90, 30},
		{200, 30}, // clamped
	}
	for _, tc := range cases {
		if got := AutoSize(tc.length, 30, 70, 45); got != tc.want {
			t.Errorf("AutoSize(%d) = %d, want %d", tc.length, got, tc.want)
		}
	}
}

func TestAutoSizeMonotonic(t *testing.T) {
	prev := AutoSize(1, 30, 70, 45)
	for l := 2; l <= 300; l++ {
		got := AutoSize(l, 30, 70, 45)
		if got > prev {
			t.Fatalf("AutoSize not monotonic at length %d: %d > %d", l, got, prev)
		}
		prev = got
	}
}

func TestParseHighlights(t *testing.T) {
	set := ParseHighlights(" hello, WORLD ,, ,Go ")
	if len(set) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(set), set)
	}
	for _, want := range []string{"HELLO", "WORLD", "GO"} {
		if !set[want] {
			t.Errorf("missing token %q", want)
		}
	}
}

func TestWordColor(t *testing.T) {
	hl := ParseHighlights("hello")

	if wordColor("HELLO", hl) != HighlightColor {
		t.Error("uppercase word should match")
	}
	if wordColor("hello!", hl) != HighlightColor {
		t.Error("trailing punctuation should be ignored")
	}
	if wordColor("Hello,", hl) != HighlightColor {
		t.Error("mixed case with trailing comma should match")
	}
	if wordColor("hell", hl) == HighlightColor {
		t.Error("partial word must not match")
	}
	if wordColor("world", hl) == HighlightColor {
		t.Error("unlisted word must not match")
	}
}

func TestRenderWidthInvariant(t *testing.T) {
	face := basicfont.Face7x13

	for _, maxWidth := range []int{60, 200, 1000} {
		img, err := RenderFace("SOME WORDS TO WRAP AROUND", face, nil, maxWidth)
		if err != nil {
			t.Fatalf("render failed at width %d: %v", maxWidth, err)
		}
		if got := img.Bounds().Dx(); got != maxWidth {
			t.Errorf("raster width = %d, want exactly %d", got, maxWidth)
		}
	}
}

func TestRenderOversizedWord(t *testing.T) {
	face := basicfont.Face7x13

	// A single word far wider than the canvas still produces a raster of
	// exactly maxWidth; the glyphs are clipped, not re-wrapped.
	img, err := RenderFace(strings.Repeat("W", 40), face, nil, 50)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if img.Bounds().Dx() != 50 {
		t.Errorf("raster width = %d, want 50", img.Bounds().Dx())
	}
}

func TestRenderLineBreaks(t *testing.T) {
	face := basicfont.Face7x13

	single, err := RenderFace("AB", face, nil, 400)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// Force a wrap: two words that cannot share a 30px line with the fixed
	// 15px word advance.
	wrapped, err := RenderFace("AB CD", face, nil, 30)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if wrapped.Bounds().Dy() <= single.Bounds().Dy() {
		t.Errorf("wrapped height %d should exceed single-line height %d",
			wrapped.Bounds().Dy(), single.Bounds().Dy())
	}

	// Two lines of equal tight height h give exactly 2h + LineGap.
	h := single.Bounds().Dy()
	if want := 2*h + LineGap; wrapped.Bounds().Dy() != want {
		t.Errorf("wrapped height = %d, want %d", wrapped.Bounds().Dy(), want)
	}
}

func TestRenderHighlightPixels(t *testing.T) {
	face := basicfont.Face7x13

	img, err := RenderFace("HI", face, ParseHighlights("hi"), 100)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !containsColor(img, HighlightColor.R, HighlightColor.G, HighlightColor.B) {
		t.Error("expected highlight-colored pixels for a matched word")
	}

	img, err = RenderFace("HI", face, nil, 100)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if containsColor(img, HighlightColor.R, HighlightColor.G, HighlightColor.B) {
		t.Error("unmatched word must not render in the highlight color")
	}
}

func TestRenderEmpty(t *testing.T) {
	if _, err := RenderFace("   ", basicfont.Face7x13, nil, 100); err == nil {
		t.Error("expected error for whitespace-only text")
	}
}

func containsColor(img *image.RGBA, r, g, b uint8) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			if ca > 0 && uint8(cr>>8) == r && uint8(cg>>8) == g && uint8(cb>>8) == b {
				return true
			}
		}
	}
	return false
}

// Keep the face type visible so the test file fails loudly if the layout API
// stops accepting plain font.Face implementations.
var _ font.Face = basicfont.Face7x13
