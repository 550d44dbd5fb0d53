package models

import (
	"encoding/json"
	"testing"
)

func TestSlideDefaults(t *testing.T) {
	var s Slide
	if err := json.Unmarshal([]byte(`{"key":"bg.jpg"}`), &s); err != nil {
		t.Fatalf("failed to unmarshal slide: %v", err)
	}

	if s.Key != "bg.jpg" {
		t.Errorf("expected key=bg.jpg, got %q", s.Key)
	}
	if s.BackgroundType != BackgroundPhoto {
		t.Errorf("expected photo default, got %q", s.BackgroundType)
	}
	if s.Title != nil || s.Subtitle != nil || s.HlTitle != nil || s.HlSubtitle != nil {
		t.Error("expected all text overrides to be absent")
	}
}

func TestSlideBlankOverride(t *testing.T) {
	// A present-but-empty subtitle must override the global, not fall back.
	var s Slide
	if err := json.Unmarshal([]byte(`{"key":"a.jpg","subtitle":""}`), &s); err != nil {
		t.Fatalf("failed to unmarshal slide: %v", err)
	}

	if s.Subtitle == nil {
		t.Fatal("expected subtitle to be present")
	}
	if *s.Subtitle != "" {
		t.Errorf("expected empty subtitle, got %q", *s.Subtitle)
	}
	if s.Title != nil {
		t.Error("expected title to be absent")
	}
}

func TestSlideAliases(t *testing.T) {
	cases := []struct {
		name string
		json string
		get  func(Slide) *string
		want string
	}{
		{"slideTitle", `{"slideTitle":"A"}`, func(s Slide) *string { return s.Title }, "A"},
		{"titleText", `{"titleText":"B"}`, func(s Slide) *string { return s.Title }, "B"},
		{"description", `{"description":"C"}`, func(s Slide) *string { return s.Subtitle }, "C"},
		{"slideSubtitle", `{"slideSubtitle":"D"}`, func(s Slide) *string { return s.Subtitle }, "D"},
		{"hlTitle", `{"hlTitle":"X,Y"}`, func(s Slide) *string { return s.HlTitle }, "X,Y"},
		{"titleHighlights", `{"titleHighlights":"Z"}`, func(s Slide) *string { return s.HlTitle }, "Z"},
		{"highlightWordsSubtitle", `{"highlightWordsSubtitle":"W"}`, func(s Slide) *string { return s.HlSubtitle }, "W"},
		{"subtitleHighlights", `{"subtitleHighlights":"V"}`, func(s Slide) *string { return s.HlSubtitle }, "V"},
	}

	for _, tc := range cases {
		var s Slide
		if err := json.Unmarshal([]byte(tc.json), &s); err != nil {
			t.Fatalf("%s: unmarshal failed: %v", tc.name, err)
		}
		got := tc.get(s)
		if got == nil {
			t.Errorf("%s: expected value, got absent", tc.name)
			continue
		}
		if *got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, *got)
		}
	}
}

func TestSlideAliasPriority(t *testing.T) {
	// The canonical key wins over later aliases when both are present.
	var s Slide
	if err := json.Unmarshal([]byte(`{"title":"first","slideTitle":"second"}`), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s.Title == nil || *s.Title != "first" {
		t.Errorf("expected title=first, got %v", s.Title)
	}
}

func TestEventDecode(t *testing.T) {
	payload := `{
		"accountName": "demo",
		"title": "Breaking",
		"spinningArtifact": "NEWS",
		"slides": [
			{"key": "a.mp4", "backgroundType": "video"},
			{"key": "b.jpg"}
		]
	}`

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}

	if ev.AccountName != "demo" || ev.Title != "Breaking" {
		t.Errorf("unexpected globals: %+v", ev)
	}
	if len(ev.Slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(ev.Slides))
	}
	if ev.Slides[0].BackgroundType != BackgroundVideo {
		t.Errorf("slide 1: expected video, got %q", ev.Slides[0].BackgroundType)
	}
	if ev.Slides[1].BackgroundType != BackgroundPhoto {
		t.Errorf("slide 2: expected photo, got %q", ev.Slides[1].BackgroundType)
	}
}

func TestParseBackgroundType(t *testing.T) {
	if ParseBackgroundType("VIDEO") != BackgroundVideo {
		t.Error("expected case-insensitive video")
	}
	if ParseBackgroundType("gif") != BackgroundPhoto {
		t.Error("expected unknown type to default to photo")
	}
	if ParseBackgroundType("") != BackgroundPhoto {
		t.Error("expected empty type to default to photo")
	}
}

func TestSlideMarshalCanonical(t *testing.T) {
	title := "T"
	s := Slide{Key: "k.jpg", BackgroundType: BackgroundPhoto, Title: &title}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("round-trip failed: %v", err)
	}
	if out["title"] != "T" || out["key"] != "k.jpg" {
		t.Errorf("unexpected canonical output: %v", out)
	}
	if _, ok := out["slideTitle"]; ok {
		t.Error("marshal must not emit alias keys")
	}
}
