package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Font is a parsed TrueType font with a per-size face cache. Faces are reused
// across slides because the autosize rule lands on a small set of sizes.
type Font struct {
	fnt *sfnt.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// LoadFont parses the first readable font file in candidates. Every candidate
// failing is a hard error — without a font the engine cannot produce text
// rasters.
func LoadFont(candidates ...string) (*Font, error) {
	var lastErr error
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		fnt, err := opentype.Parse(data)
		if err != nil {
			lastErr = fmt.Errorf("parse %s: %w", path, err)
			continue
		}
		return &Font{fnt: fnt, faces: make(map[int]font.Face)}, nil
	}
	return nil, fmt.Errorf("no usable font in %v: %w", candidates, lastErr)
}

// Face returns a rasterizing face at the given pixel size.
func (f *Font) Face(size int) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face at size %d: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// TitleFontPaths lists candidate locations for the heavy title sans, from the
// packaged copy down to well-known system installs.
func TitleFontPaths(dir string) []string {
	return fontPaths(dir, "ariblk.ttf",
		"/usr/share/fonts/truetype/msttcorefonts/ariblk.ttf",
		"/usr/share/fonts/truetype/msttcorefonts/Arial_Black.ttf",
		"C:/Windows/Fonts/ariblk.ttf",
	)
}

// SubtitleFontPaths lists candidate locations for the medium subtitle sans.
func SubtitleFontPaths(dir string) []string {
	return fontPaths(dir, "Montserrat-Medium.ttf",
		"/usr/share/fonts/truetype/montserrat/Montserrat-Medium.ttf",
		"/usr/local/share/fonts/Montserrat-Medium.ttf",
	)
}

func fontPaths(dir, name string, system ...string) []string {
	paths := []string{filepath.Join(dir, name)}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), dir, name))
	}
	return append(paths, system...)
}
