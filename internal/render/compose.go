// Package render composes carousel slides: a photo path that produces the
// final 1080x1350 canvas directly, and a clip path that builds overlay planes
// and drives ffmpeg for motion backgrounds.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Every output is a portrait Instagram canvas.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1350
)

// Font sizing rules per text block. Clip titles on the first video slide
// shrink faster than photo titles.
const (
	TitleMaxSize  = 110
	TitleMinSize  = 75
	TitleIdealLen = 35
	TitleMaxWidth = 1000

	SubtitleMaxSize  = 70
	SubtitleMinSize  = 30
	SubtitleIdealLen = 45
	SubtitleMaxWidth = 600

	ClipTitleMaxSize  = 100
	ClipTitleMinSize  = 75
	ClipTitleIdealLen = 25
)

// Logo block geometry: a 700x4 brand stripe butted to the logo's left edge
// with a 20px gap.
const (
	stripeWidth  = 700
	stripeHeight = 4
	stripeGap    = 20

	logoEdgeInset        = 50  // right inset, both placements
	logoPhotoBottomInset = 50  // photo-canvas placement
	logoClipBottomInset  = 100 // clip placement
)

const (
	artifactInsetX = 50
	artifactInsetY = 50
)

var (
	black       = color.NRGBA{A: 0xff}
	stripeColor = color.NRGBA{R: 0xec, G: 0x00, B: 0x8c, A: 0xff}
)

// AnchorRule selects the text anchoring table for a slide.
type AnchorRule int

const (
	// AnchorPhotoFirst anchors text on a first-slide canvas (logo present).
	AnchorPhotoFirst AnchorRule = iota
	// AnchorPhotoRest anchors text on a non-first photo slide.
	AnchorPhotoRest
	// AnchorClipFirst anchors text on the first video slide.
	AnchorClipFirst
	// AnchorClipRest anchors text on a non-first video slide.
	AnchorClipRest
)

// LogoRule selects where (or whether) the logo block is anchored.
type LogoRule int

const (
	LogoNone LogoRule = iota
	LogoPhoto
	LogoClip
)

// Layers carries the optional raster layers of one slide. Nil layers are
// skipped — a missing gradient or logo never fails a slide.
type Layers struct {
	Gradient     image.Image
	Title        image.Image
	Subtitle     image.Image
	Artifact     image.Image // artifact still, photo canvases only
	ArtifactName string
	Logo         image.Image
}

// PlaceBackground fits a photo onto the canvas: scaled to full width, then
// top-cropped when taller than the canvas or letterboxed on black when
// shorter.
func PlaceBackground(src image.Image) *image.NRGBA {
	scaled := imaging.Resize(src, CanvasWidth, 0, imaging.Lanczos)
	if scaled.Bounds().Dy() > CanvasHeight {
		return imaging.Crop(scaled, image.Rect(0, 0, CanvasWidth, CanvasHeight))
	}

	canvas := imaging.New(CanvasWidth, CanvasHeight, black)
	offsetY := (CanvasHeight - scaled.Bounds().Dy()) / 2
	return imaging.Paste(canvas, scaled, image.Pt(0, offsetY))
}

// ScaledHeight is the background height after scaling to canvas width.
func ScaledHeight(srcW, srcH int) int {
	return srcH * CanvasWidth / srcW
}

// ClipOffsetY is the vertical placement of a scaled motion background:
// vertical centering plus a fixed 40px downward nudge.
func ClipOffsetY(srcW, srcH int) int {
	offset := (CanvasHeight - ScaledHeight(srcW, srcH)) / 2
	if offset < 0 {
		offset = 0
	}
	return offset + 40
}

// ArtifactWidth is the overlay width for a named artifact. The wide-format
// clips get 400px, everything else 250px.
func ArtifactWidth(name string) int {
	switch name {
	case "TRAILER", "THROWBACK":
		return 400
	default:
		return 250
	}
}

// LogoBlock composes the stripe-gap-logo raster. The stripe is vertically
// centered against the logo; the block is never shorter than the stripe.
func LogoBlock(logo image.Image) *image.NRGBA {
	logoW := logo.Bounds().Dx()
	logoH := logo.Bounds().Dy()

	blockW := stripeWidth + stripeGap + logoW
	blockH := logoH
	if blockH < stripeHeight {
		blockH = stripeHeight
	}

	block := image.NewNRGBA(image.Rect(0, 0, blockW, blockH))
	stripeY := (blockH - stripeHeight) / 2
	draw.Draw(block, image.Rect(0, stripeY, stripeWidth, stripeY+stripeHeight),
		&image.Uniform{stripeColor}, image.Point{}, draw.Src)
	logoY := (blockH - logoH) / 2
	draw.Draw(block, image.Rect(stripeWidth+stripeGap, logoY, blockW, logoY+logoH),
		logo, logo.Bounds().Min, draw.Over)
	return block
}

// TextAnchors computes the top-left Y of the title and subtitle rasters for a
// rule. A zero height marks an absent block; its anchor is meaningless.
func TextAnchors(rule AnchorRule, titleH, subH int) (titleY, subY int) {
	switch rule {
	case AnchorPhotoFirst:
		if subH > 0 {
			subY = CanvasHeight - 225 - subH
			titleY = subY - 50 - titleH
		} else {
			titleY = CanvasHeight - 150 - titleH
		}
	case AnchorPhotoRest:
		switch {
		case titleH > 0 && subH > 0:
			subY = CanvasHeight - 100 - subH
			titleY = subY - 50 - titleH
		case titleH > 0:
			titleY = CanvasHeight - 100 - titleH
		case subH > 0:
			subY = CanvasHeight - 100 - subH
		}
	case AnchorClipFirst:
		titleY = 25
		subY = CanvasHeight - 150 - subH
	case AnchorClipRest:
		titleY = 100
		subY = CanvasHeight - 100 - subH
	}
	return titleY, subY
}

// ComposePhoto renders a complete photo slide: background placement, then
// gradient, text, artifact still, and logo block for first slides. The
// orchestrator only calls it with first=false; first-slide photos go through
// ComposeStillCanvas and become a looping clip instead.
func ComposePhoto(bg image.Image, l Layers, first bool) *image.NRGBA {
	canvas := PlaceBackground(bg)
	rule := AnchorPhotoRest
	logoRule := LogoNone
	if first {
		rule = AnchorPhotoFirst
		logoRule = LogoPhoto
	} else {
		l.Artifact = nil
	}
	drawLayers(canvas, l, rule, logoRule)
	return canvas
}

// ComposeStillCanvas renders the canvas for a photo that becomes the first
// slide's still-as-video clip: photo background placement and photo-rule text
// anchors, but the logo at the clip placement. The artifact is overlaid at
// the clip stage, not here.
func ComposeStillCanvas(bg image.Image, l Layers) *image.NRGBA {
	canvas := PlaceBackground(bg)
	l.Artifact = nil
	drawLayers(canvas, l, AnchorPhotoFirst, LogoClip)
	return canvas
}

// OverlayPlane renders the transparent per-frame overlay for a video slide.
// First slides carry gradient, clip-anchored text, and the logo block;
// non-first slides carry text only.
func OverlayPlane(l Layers, first bool) *image.NRGBA {
	plane := image.NewNRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	l.Artifact = nil
	if first {
		drawLayers(plane, l, AnchorClipFirst, LogoClip)
	} else {
		l.Gradient = nil
		l.Logo = nil
		drawLayers(plane, l, AnchorClipRest, LogoNone)
	}
	return plane
}

// drawLayers composites the optional layers bottom-to-top: gradient, title,
// subtitle, artifact still, logo block.
func drawLayers(dst *image.NRGBA, l Layers, rule AnchorRule, logoRule LogoRule) {
	if l.Gradient != nil {
		gradient := imaging.Resize(l.Gradient, CanvasWidth, CanvasHeight, imaging.Lanczos)
		draw.Draw(dst, dst.Bounds(), gradient, image.Point{}, draw.Over)
	}

	titleH, subH := 0, 0
	if l.Title != nil {
		titleH = l.Title.Bounds().Dy()
	}
	if l.Subtitle != nil {
		subH = l.Subtitle.Bounds().Dy()
	}
	titleY, subY := TextAnchors(rule, titleH, subH)

	if l.Title != nil {
		drawCentered(dst, l.Title, titleY)
	}
	if l.Subtitle != nil {
		drawCentered(dst, l.Subtitle, subY)
	}

	if l.Artifact != nil {
		artifact := imaging.Resize(l.Artifact, ArtifactWidth(l.ArtifactName), 0, imaging.Lanczos)
		draw.Draw(dst, artifact.Bounds().Add(image.Pt(artifactInsetX, artifactInsetY)),
			artifact, image.Point{}, draw.Over)
	}

	if logoRule != LogoNone && l.Logo != nil {
		block := LogoBlock(l.Logo)
		bottomInset := logoPhotoBottomInset
		if logoRule == LogoClip {
			bottomInset = logoClipBottomInset
		}
		x := CanvasWidth - logoEdgeInset - block.Bounds().Dx()
		y := CanvasHeight - bottomInset - block.Bounds().Dy()
		draw.Draw(dst, block.Bounds().Add(image.Pt(x, y)), block, image.Point{}, draw.Over)
	}
}

func drawCentered(dst *image.NRGBA, img image.Image, y int) {
	x := (CanvasWidth - img.Bounds().Dx()) / 2
	draw.Draw(dst, img.Bounds().Sub(img.Bounds().Min).Add(image.Pt(x, y)), img, img.Bounds().Min, draw.Over)
}
