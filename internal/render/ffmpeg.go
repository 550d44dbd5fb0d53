package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Encoding constants: portrait H.264 at 24fps, no audio, two codec threads.
const (
	FPS             = 24
	DefaultDuration = 10.0
	encoderThreads  = 2
)

// FFmpeg drives the ffmpeg/ffprobe binaries.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// VideoInfo is the probed geometry and duration of a source clip.
type VideoInfo struct {
	Width    int
	Height   int
	Duration float64
}

// Probe reads the first video stream's dimensions and the container duration.
func (f *FFmpeg) Probe(ctx context.Context, path string) (VideoInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	output, err := exec.CommandContext(ctx, f.ffprobePath, args...).Output()
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	lines := strings.Fields(strings.TrimSpace(string(output)))
	if len(lines) < 3 {
		return VideoInfo{}, fmt.Errorf("unexpected ffprobe output for %s: %q", path, string(output))
	}

	var info VideoInfo
	if _, err := fmt.Sscanf(lines[0], "%d", &info.Width); err != nil {
		return VideoInfo{}, fmt.Errorf("parse width: %w", err)
	}
	if _, err := fmt.Sscanf(lines[1], "%d", &info.Height); err != nil {
		return VideoInfo{}, fmt.Errorf("parse height: %w", err)
	}
	if _, err := fmt.Sscanf(lines[2], "%f", &info.Duration); err != nil {
		return VideoInfo{}, fmt.Errorf("parse duration: %w", err)
	}
	return info, nil
}

// ClipJob describes one slide's video composition: a background (motion clip
// or pre-composed still canvas), an optional per-frame overlay plane, and an
// optional looping artifact clip.
type ClipJob struct {
	BackgroundPath  string
	StillBackground bool // loop a single image for the full duration
	OffsetY         int  // vertical placement of the scaled background

	OverlayPath string // transparent 1080x1350 plane, "" to skip

	ArtifactPath  string // branded artifact clip, "" to skip
	ArtifactWidth int

	Duration   float64
	OutputPath string
}

// RenderClip composes and encodes one slide video.
func (f *FFmpeg) RenderClip(ctx context.Context, job ClipJob) error {
	args := buildClipArgs(job)
	log.Debug().Strs("args", args).Msg("running ffmpeg")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg render failed: %w: %s", err, tail(stderr.String(), 400))
	}
	return nil
}

// ExtractFrame saves the first decoded frame of a video as a PNG thumbnail.
func (f *FFmpeg) ExtractFrame(ctx context.Context, videoPath, outPath string) error {
	args := []string{
		"-i", videoPath,
		"-frames:v", "1",
		"-y",
		outPath,
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg frame extraction failed: %w: %s", err, tail(stderr.String(), 400))
	}
	return nil
}

// buildClipArgs assembles the full ffmpeg invocation for a ClipJob.
//
// The background is scaled to canvas width and placed onto an opaque black
// base at OffsetY; the overlay plane repeats its single frame for the whole
// clip; the artifact loops until the output duration cut.
func buildClipArgs(job ClipJob) []string {
	var args []string

	if job.StillBackground {
		args = append(args, "-loop", "1", "-t", formatDuration(job.Duration))
	}
	args = append(args, "-i", job.BackgroundPath)

	inputs := 1
	overlayIdx, artifactIdx := -1, -1
	if job.OverlayPath != "" {
		args = append(args, "-i", job.OverlayPath)
		overlayIdx = inputs
		inputs++
	}
	if job.ArtifactPath != "" {
		args = append(args, "-stream_loop", "-1", "-i", job.ArtifactPath)
		artifactIdx = inputs
		inputs++
	}

	filter := fmt.Sprintf(
		"color=black:s=%dx%d:r=%d:d=%s[base];[0:v]scale=%d:-2[bg];[base][bg]overlay=0:%d:eof_action=repeat[comp]",
		CanvasWidth, CanvasHeight, FPS, formatDuration(job.Duration), CanvasWidth, job.OffsetY)
	current := "comp"

	if overlayIdx >= 0 {
		filter += fmt.Sprintf(";[%s][%d:v]overlay=0:0:eof_action=repeat[ovl]", current, overlayIdx)
		current = "ovl"
	}
	if artifactIdx >= 0 {
		filter += fmt.Sprintf(";[%d:v]scale=%d:-2[art];[%s][art]overlay=%d:%d:eof_action=repeat[out]",
			artifactIdx, job.ArtifactWidth, current, artifactInsetX, artifactInsetY)
		current = "out"
	}

	return append(args,
		"-filter_complex", filter,
		"-map", "["+current+"]",
		"-t", formatDuration(job.Duration),
		"-r", fmt.Sprintf("%d", FPS),
		"-an",
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-threads", fmt.Sprintf("%d", encoderThreads),
		"-pix_fmt", "yuv420p",
		"-y",
		job.OutputPath,
	)
}

func formatDuration(d float64) string {
	return fmt.Sprintf("%.3f", d)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
