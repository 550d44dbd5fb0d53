package worker

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/slamfeed/carousel/internal/assets"
	"github.com/slamfeed/carousel/internal/layout"
	"github.com/slamfeed/carousel/internal/models"
	"github.com/slamfeed/carousel/internal/render"
	"github.com/slamfeed/carousel/internal/storage"
)

// Engine renders a carousel job end to end: shared asset fetch, per-slide
// composition and encoding, and upload of the finished artifacts.
type Engine struct {
	store        *storage.Store
	ffmpeg       *render.FFmpeg
	titleFont    *layout.Font
	subtitleFont *layout.Font
}

func NewEngine(store *storage.Store, ffmpeg *render.FFmpeg, titleFont, subtitleFont *layout.Font) *Engine {
	return &Engine{
		store:        store,
		ffmpeg:       ffmpeg,
		titleFont:    titleFont,
		subtitleFont: subtitleFont,
	}
}

// slideKind is the routing decision for one slide.
type slideKind int

const (
	kindFirstVideo slideKind = iota
	kindStillFirst
	kindVideoRest
	kindPhotoRest
)

// routeSlide picks the render path for slide number n (1-based).
func routeSlide(n int, bg models.BackgroundType) slideKind {
	first := n == 1
	switch {
	case first && bg == models.BackgroundVideo:
		return kindFirstVideo
	case first:
		return kindStillFirst
	case bg == models.BackgroundVideo:
		return kindVideoRest
	default:
		return kindPhotoRest
	}
}

// OutputFolder is the destination prefix for one job, stamped at render time.
func OutputFolder(now time.Time) string {
	return "posts/post_" + now.UTC().Format("20060102150405")
}

func outputKey(folder string, n int, ext string) string {
	return fmt.Sprintf("%s/slide_%02d.%s", folder, n, ext)
}

// resolve returns the slide override when the field was present in the
// payload (even empty), otherwise the event-level value.
func resolve(override *string, global string) string {
	if override != nil {
		return *override
	}
	return global
}

// Run renders every slide of the event and uploads the results. Individual
// slide failures are logged and skipped; the job fails only when there are no
// slides at all or the scratch space cannot be created.
func (e *Engine) Run(ctx context.Context, event *models.Event) (*models.Result, error) {
	if len(event.Slides) == 0 {
		return nil, fmt.Errorf("event has no slides")
	}

	scratch, err := os.MkdirTemp("", "carousel-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	fetcher := assets.NewFetcher(e.store, scratch)
	gradient := loadImage(fetcher.Gradient(ctx))
	logo := loadImage(fetcher.Logo(ctx, event.AccountName))
	artifactPath := fetcher.Artifact(ctx, event.SpinningArtifact)
	artifactName := strings.ToUpper(strings.TrimSpace(event.SpinningArtifact))

	folder := OutputFolder(time.Now())
	var keys []string

	for i, slide := range event.Slides {
		n := i + 1
		slideKeys, err := e.renderSlide(ctx, slideJob{
			n:            n,
			slide:        slide,
			event:        event,
			scratch:      scratch,
			folder:       folder,
			gradient:     gradient,
			logo:         logo,
			artifactPath: artifactPath,
			artifactName: artifactName,
		})
		if err != nil {
			log.Warn().Err(err).Int("slide", n).Msg("slide skipped")
			continue
		}
		keys = append(keys, slideKeys...)
	}

	return &models.Result{Status: models.StatusRendered, ImageKeys: keys, Folder: folder}, nil
}

type slideJob struct {
	n       int
	slide   models.Slide
	event   *models.Event
	scratch string
	folder  string

	gradient     image.Image
	logo         image.Image
	artifactPath string
	artifactName string
}

func (e *Engine) renderSlide(ctx context.Context, job slideJob) ([]string, error) {
	if strings.TrimSpace(job.slide.Key) == "" {
		return nil, fmt.Errorf("empty background key")
	}

	bgPath := filepath.Join(job.scratch,
		"bg_"+uuid.NewString()+strings.ToLower(filepath.Ext(job.slide.Key)))
	if !e.store.Fetch(ctx, job.slide.Key, bgPath) {
		return nil, fmt.Errorf("fetch background %s", job.slide.Key)
	}

	kind := routeSlide(job.n, job.slide.BackgroundType)
	first := job.n == 1

	title := strings.ToUpper(resolve(job.slide.Title, job.event.Title))
	subtitle := strings.ToUpper(resolve(job.slide.Subtitle, job.event.Description))
	hlTitle := layout.ParseHighlights(resolve(job.slide.HlTitle, job.event.HighlightWordsTitle))
	hlSubtitle := layout.ParseHighlights(resolve(job.slide.HlSubtitle, job.event.HighlightWordsDescription))

	clipTitle := kind == kindFirstVideo
	layers := render.Layers{
		Gradient:     job.gradient,
		Logo:         job.logo,
		ArtifactName: job.artifactName,
	}
	var err error
	if layers.Title, err = e.renderTitle(title, hlTitle, clipTitle); err != nil {
		return nil, err
	}
	if layers.Subtitle, err = e.renderSubtitle(subtitle, hlSubtitle); err != nil {
		return nil, err
	}

	switch kind {
	case kindPhotoRest:
		return e.renderPhoto(ctx, job, bgPath, layers)
	case kindStillFirst:
		return e.renderStillClip(ctx, job, bgPath, layers)
	default:
		return e.renderVideoClip(ctx, job, bgPath, layers, first)
	}
}

// renderPhoto composes a non-first photo slide and uploads it as a PNG.
func (e *Engine) renderPhoto(ctx context.Context, job slideJob, bgPath string, layers render.Layers) ([]string, error) {
	bg, err := imaging.Open(bgPath)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}

	canvas := render.ComposePhoto(bg, layers, false)
	outPath := filepath.Join(job.scratch, fmt.Sprintf("slide_%02d.png", job.n))
	if err := imaging.Save(canvas, outPath); err != nil {
		return nil, fmt.Errorf("save slide png: %w", err)
	}

	key := outputKey(job.folder, job.n, "png")
	if err := e.store.Upload(ctx, key, outPath, "image/png"); err != nil {
		return nil, fmt.Errorf("upload slide png: %w", err)
	}
	return []string{key}, nil
}

// renderStillClip turns a first-slide photo into a looping video: the full
// canvas is composed as an image, then looped for the default duration with
// the artifact overlaid during encoding.
func (e *Engine) renderStillClip(ctx context.Context, job slideJob, bgPath string, layers render.Layers) ([]string, error) {
	bg, err := imaging.Open(bgPath)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}

	canvas := render.ComposeStillCanvas(bg, layers)
	canvasPath := filepath.Join(job.scratch, fmt.Sprintf("canvas_%02d.png", job.n))
	if err := imaging.Save(canvas, canvasPath); err != nil {
		return nil, fmt.Errorf("save still canvas: %w", err)
	}

	return e.encodeAndUpload(ctx, job, render.ClipJob{
		BackgroundPath:  canvasPath,
		StillBackground: true,
		ArtifactPath:    job.artifactPath,
		ArtifactWidth:   render.ArtifactWidth(job.artifactName),
		Duration:        render.DefaultDuration,
	})
}

// renderVideoClip composes the overlay plane for a motion background and
// encodes the slide clip.
func (e *Engine) renderVideoClip(ctx context.Context, job slideJob, bgPath string, layers render.Layers, first bool) ([]string, error) {
	info, err := e.ffmpeg.Probe(ctx, bgPath)
	if err != nil {
		return nil, fmt.Errorf("probe background: %w", err)
	}
	duration := info.Duration
	if duration <= 0 || duration > render.DefaultDuration {
		duration = render.DefaultDuration
	}

	plane := render.OverlayPlane(layers, first)
	planePath := filepath.Join(job.scratch, fmt.Sprintf("plane_%02d.png", job.n))
	if err := imaging.Save(plane, planePath); err != nil {
		return nil, fmt.Errorf("save overlay plane: %w", err)
	}

	clip := render.ClipJob{
		BackgroundPath: bgPath,
		OffsetY:        render.ClipOffsetY(info.Width, info.Height),
		OverlayPath:    planePath,
		Duration:       duration,
	}
	if first {
		clip.ArtifactPath = job.artifactPath
		clip.ArtifactWidth = render.ArtifactWidth(job.artifactName)
	}
	return e.encodeAndUpload(ctx, job, clip)
}

// encodeAndUpload runs the clip encode, extracts the thumbnail, and uploads
// both artifacts. A failed thumbnail upload drops the thumbnail but keeps the
// clip.
func (e *Engine) encodeAndUpload(ctx context.Context, job slideJob, clip render.ClipJob) ([]string, error) {
	clip.OutputPath = filepath.Join(job.scratch, fmt.Sprintf("slide_%02d.mp4", job.n))
	if err := e.ffmpeg.RenderClip(ctx, clip); err != nil {
		return nil, err
	}

	videoKey := outputKey(job.folder, job.n, "mp4")
	if err := e.store.Upload(ctx, videoKey, clip.OutputPath, "video/mp4"); err != nil {
		return nil, fmt.Errorf("upload slide video: %w", err)
	}
	keys := []string{videoKey}

	thumbPath := filepath.Join(job.scratch, fmt.Sprintf("thumb_%02d.png", job.n))
	if err := e.ffmpeg.ExtractFrame(ctx, clip.OutputPath, thumbPath); err != nil {
		log.Warn().Err(err).Int("slide", job.n).Msg("thumbnail extraction failed")
		return keys, nil
	}
	thumbKey := outputKey(job.folder, job.n, "png")
	if err := e.store.Upload(ctx, thumbKey, thumbPath, "image/png"); err != nil {
		log.Warn().Err(err).Str("key", thumbKey).Msg("thumbnail upload failed")
		return keys, nil
	}
	return append(keys, thumbKey), nil
}

// renderTitle rasterizes the title block. First video slides use the tighter
// clip sizing; everything else uses the standard title rule.
func (e *Engine) renderTitle(text string, highlights map[string]bool, clip bool) (image.Image, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	size := layout.AutoSize(len([]rune(text)), render.TitleMinSize, render.TitleMaxSize, render.TitleIdealLen)
	if clip {
		size = layout.AutoSize(len([]rune(text)), render.ClipTitleMinSize, render.ClipTitleMaxSize, render.ClipTitleIdealLen)
	}
	img, err := layout.Render(text, e.titleFont, size, highlights, render.TitleMaxWidth)
	if err != nil {
		return nil, fmt.Errorf("render title: %w", err)
	}
	return img, nil
}

func (e *Engine) renderSubtitle(text string, highlights map[string]bool) (image.Image, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	size := layout.AutoSize(len([]rune(text)), render.SubtitleMinSize, render.SubtitleMaxSize, render.SubtitleIdealLen)
	img, err := layout.Render(text, e.subtitleFont, size, highlights, render.SubtitleMaxWidth)
	if err != nil {
		return nil, fmt.Errorf("render subtitle: %w", err)
	}
	return img, nil
}

// loadImage opens a fetched asset; a missing or unreadable asset becomes a
// nil layer and the slide renders without it.
func loadImage(path string) image.Image {
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("asset decode failed, layer skipped")
		return nil
	}
	return img
}
