package models

import (
	"encoding/json"
	"strings"
)

// Enums

type BackgroundType string

const (
	BackgroundPhoto BackgroundType = "photo"
	BackgroundVideo BackgroundType = "video"
)

// ParseBackgroundType maps the raw field to a background type.
// Anything other than "video" is treated as a photo background.
func ParseBackgroundType(raw string) BackgroundType {
	if strings.EqualFold(strings.TrimSpace(raw), string(BackgroundVideo)) {
		return BackgroundVideo
	}
	return BackgroundPhoto
}

type Status string

const (
	StatusRendered Status = "rendered"
	StatusError    Status = "error"
)

// Event is the carousel job payload. Top-level text fields are global
// fallbacks for slides that carry no override of their own.
type Event struct {
	AccountName               string  `json:"accountName"`
	Title                     string  `json:"title"`
	Description               string  `json:"description"`
	HighlightWordsTitle       string  `json:"highlightWordsTitle"`
	HighlightWordsDescription string  `json:"highlightWordsDescription"`
	SpinningArtifact          string  `json:"spinningArtifact"`
	Slides                    []Slide `json:"slides"`
}

// Slide is one carousel entry. Text fields are pointers so that a slide can
// intentionally blank a global field: a present-but-empty alias overrides the
// global value with "", while an absent field (nil) falls back to the global.
type Slide struct {
	Key            string
	BackgroundType BackgroundType
	Title          *string
	Subtitle       *string
	HlTitle        *string
	HlSubtitle     *string
}

// Accepted aliases per field, checked in order. The subtitle highlight list
// deliberately accepts more aliases on slides than the global event does.
var (
	titleAliases      = []string{"title", "slideTitle", "titleText"}
	subtitleAliases   = []string{"subtitle", "description", "slideSubtitle"}
	hlTitleAliases    = []string{"highlightWordsTitle", "hlTitle", "titleHighlights"}
	hlSubtitleAliases = []string{"highlightWordsDescription", "highlightWordsSubtitle", "hlSubtitle", "subtitleHighlights"}
)

func (s *Slide) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["key"]; ok {
		_ = json.Unmarshal(v, &s.Key)
	}

	var bg string
	if v, ok := raw["backgroundType"]; ok {
		_ = json.Unmarshal(v, &bg)
	}
	s.BackgroundType = ParseBackgroundType(bg)

	s.Title = firstPresent(raw, titleAliases)
	s.Subtitle = firstPresent(raw, subtitleAliases)
	s.HlTitle = firstPresent(raw, hlTitleAliases)
	s.HlSubtitle = firstPresent(raw, hlSubtitleAliases)
	return nil
}

// MarshalJSON writes the canonical key names only.
func (s Slide) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"key":            s.Key,
		"backgroundType": string(s.BackgroundType),
	}
	if s.Title != nil {
		out["title"] = *s.Title
	}
	if s.Subtitle != nil {
		out["subtitle"] = *s.Subtitle
	}
	if s.HlTitle != nil {
		out["highlightWordsTitle"] = *s.HlTitle
	}
	if s.HlSubtitle != nil {
		out["highlightWordsDescription"] = *s.HlSubtitle
	}
	return json.Marshal(out)
}

// firstPresent returns the value of the first alias present in raw, even when
// that value is the empty string. Absence of every alias returns nil.
func firstPresent(raw map[string]json.RawMessage, aliases []string) *string {
	for _, alias := range aliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		return &s
	}
	return nil
}

// Result is the job output returned to the caller and, when a task token is
// set, reported to the surrounding workflow.
type Result struct {
	Status    Status   `json:"status"`
	ImageKeys []string `json:"imageKeys,omitempty"`
	Folder    string   `json:"folder,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func ErrorResult(err error) *Result {
	return &Result{Status: StatusError, Error: err.Error()}
}
