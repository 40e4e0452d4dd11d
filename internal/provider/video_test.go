package provider

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVideoLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		video *Video
		want  string
	}{
		"episode":         {NewEpisode("/tv/a.mkv", "Show", 1, 2), "Show S01E02"},
		"special":         {NewEpisode("/tv/a.mkv", "Show", 0, 5), "Show S00E05"},
		"episode no nums": {&Video{MediaType: MediaTypeEpisode, Series: "Show"}, "Show"},
		"movie":           {NewMovie("/m/a.mkv", "Film", "2010"), "Film (2010)"},
		"movie no year":   {NewMovie("/m/a.mkv", "Film", ""), "Film"},
		"unknown":         {&Video{Name: "/x/clip.avi"}, "clip.avi"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tc.video.Label(); got != tc.want {
				t.Errorf("Label() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVideoPathHelpers(t *testing.T) {
	t.Parallel()

	v := NewMovie("/movies/Film (2010)/Film.2010.1080p.mkv", "Film", "2010")
	if got := v.Ext(); got != ".mkv" {
		t.Errorf("Ext() = %q, want .mkv", got)
	}
	if got := v.BaseName(); got != "Film.2010.1080p.mkv" {
		t.Errorf("BaseName() = %q, want Film.2010.1080p.mkv", got)
	}
}

func TestVideoAttrs(t *testing.T) {
	t.Parallel()

	v := &Video{}
	attrs := []string{"release_group", "format", "resolution", "video_codec", "audio_codec", "original_name"}
	for _, attr := range attrs {
		if err := v.SetAttr(attr, attr+"-value"); err != nil {
			t.Fatalf("SetAttr(%s) error = %v", attr, err)
		}
	}

	want := &Video{
		ReleaseGroup: "release_group-value",
		Format:       "format-value",
		Resolution:   "resolution-value",
		VideoCodec:   "video_codec-value",
		AudioCodec:   "audio_codec-value",
		OriginalName: "original_name-value",
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("video mismatch (-want +got):\n%s", diff)
	}

	for _, attr := range attrs {
		if got := v.Attr(attr); got != attr+"-value" {
			t.Errorf("Attr(%s) = %q", attr, got)
		}
	}

	if err := v.SetAttr("bogus", "x"); err == nil {
		t.Error("SetAttr(bogus) expected error, got nil")
	}
	if got := v.Attr("bogus"); got != "" {
		t.Errorf("Attr(bogus) = %q, want empty", got)
	}
}

func TestGuessGet(t *testing.T) {
	t.Parallel()

	g := Guess{ReleaseGroup: "GRP", Format: "BluRay"}

	if got, ok := g.Get("release_group"); !ok || got != "GRP" {
		t.Errorf("Get(release_group) = %q, %v", got, ok)
	}
	if got, ok := g.Get("format"); !ok || got != "BluRay" {
		t.Errorf("Get(format) = %q, %v", got, ok)
	}
	if _, ok := g.Get("resolution"); ok {
		t.Error("Get(resolution) found = true, want false for empty value")
	}
	if _, ok := g.Get("nonsense"); ok {
		t.Error("Get(nonsense) found = true, want false")
	}
}
