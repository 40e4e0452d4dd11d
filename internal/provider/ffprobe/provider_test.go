package ffprobe

import (
	"context"
	"errors"
	"testing"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/google/go-cmp/cmp"
	ffprobeLib "gopkg.in/vansante/go-ffprobe.v2"
)

func fakeProbe(data *ffprobeLib.ProbeData, err error) probeFunc {
	return func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		return data, err
	}
}

func sampleData() *ffprobeLib.ProbeData {
	return &ffprobeLib.ProbeData{
		Format: &ffprobeLib.Format{},
		Streams: []*ffprobeLib.Stream{
			{
				CodecName: "h264",
				CodecType: string(ffprobeLib.StreamVideo),
				Height:    1080,
			},
			{
				CodecName: "aac",
				CodecType: string(ffprobeLib.StreamAudio),
			},
		},
	}
}

func TestProbe_Success(t *testing.T) {
	p := New()
	p.probe = fakeProbe(sampleData(), nil)

	video := provider.NewMovie("/videos/example.mkv", "Example", "2020")
	if err := p.Probe(context.Background(), video); err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}

	want := provider.NewMovie("/videos/example.mkv", "Example", "2020")
	want.VideoCodec = "h264"
	want.AudioCodec = "aac"
	want.Resolution = "1080p"
	if diff := cmp.Diff(want, video); diff != "" {
		t.Errorf("Probe() mismatch (-want +got):\n%s", diff)
	}
}

func TestProbe_KeepsExistingValues(t *testing.T) {
	p := New()
	p.probe = fakeProbe(sampleData(), nil)

	video := provider.NewEpisode("/tv/show.mkv", "Show", 1, 1)
	video.VideoCodec = "x265"
	video.Resolution = "2160p"

	if err := p.Probe(context.Background(), video); err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}
	if video.VideoCodec != "x265" || video.Resolution != "2160p" {
		t.Errorf("Probe() overwrote values: codec=%q resolution=%q", video.VideoCodec, video.Resolution)
	}
	if video.AudioCodec != "aac" {
		t.Errorf("AudioCodec = %q, want aac", video.AudioCodec)
	}
}

func TestProbe_MissingPath(t *testing.T) {
	p := New()
	err := p.Probe(context.Background(), &provider.Video{})
	if !provider.IsCode(err, provider.CodeInvalidRequest) {
		t.Fatalf("Probe() error = %v, want INVALID_REQUEST", err)
	}
}

func TestProbe_Failure(t *testing.T) {
	p := New()
	p.probe = fakeProbe(nil, errors.New("exit status 1"))

	err := p.Probe(context.Background(), provider.NewMovie("/videos/broken.mkv", "Broken", ""))
	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Probe() error = %v, want ProviderError", err)
	}
	if provErr.Provider != providerName {
		t.Errorf("Provider = %q, want %q", provErr.Provider, providerName)
	}
}

func TestProbe_CanceledContext(t *testing.T) {
	p := New()
	p.probe = fakeProbe(nil, errors.New("killed"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Probe(ctx, provider.NewMovie("/videos/a.mkv", "A", ""))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Probe() error = %v, want context.Canceled", err)
	}
}

func TestResolutionFromHeight(t *testing.T) {
	tests := map[int]string{
		0:    "",
		360:  "360p",
		480:  "480p",
		576:  "576p",
		720:  "720p",
		800:  "720p",
		1080: "1080p",
		1088: "1080p",
		2160: "2160p",
	}
	for height, want := range tests {
		if got := resolutionFromHeight(height); got != want {
			t.Errorf("resolutionFromHeight(%d) = %q, want %q", height, got, want)
		}
	}
}
