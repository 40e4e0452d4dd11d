package ffprobe

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/scenename/internal/provider"
	"gopkg.in/vansante/go-ffprobe.v2"
)

const providerName = "ffprobe"

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Prober fills technical attributes of a video from the file itself.
type Prober struct {
	probe probeFunc
}

// New creates a new ffprobe prober with default configuration.
func New() *Prober {
	return &Prober{
		probe: ffprobe.ProbeURL,
	}
}

// Name returns the prober name.
func (p *Prober) Name() string {
	return providerName
}

// Probe runs ffprobe on the video file. Attributes that are already set are
// left alone.
func (p *Prober) Probe(ctx context.Context, video *provider.Video) error {
	if video == nil || video.Name == "" {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "ffprobe requires a non-empty file path",
		}
	}

	data, err := p.probe(ctx, video.Name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  fmt.Sprintf("ffprobe failed for %s: %v", video.Name, err),
		}
	}
	if data == nil {
		return nil
	}

	if stream := data.FirstVideoStream(); stream != nil {
		if video.VideoCodec == "" {
			video.VideoCodec = pickCodecName(stream)
		}
		if video.Resolution == "" {
			video.Resolution = resolutionFromHeight(stream.Height)
		}
	}

	if stream := data.FirstAudioStream(); stream != nil && video.AudioCodec == "" {
		video.AudioCodec = pickCodecName(stream)
	}

	return nil
}

func pickCodecName(stream *ffprobe.Stream) string {
	if stream == nil {
		return ""
	}
	if stream.CodecName != "" {
		return stream.CodecName
	}
	return stream.CodecLongName
}

// resolutionFromHeight maps a frame height to the usual release label.
func resolutionFromHeight(height int) string {
	switch {
	case height <= 0:
		return ""
	case height >= 2000:
		return "2160p"
	case height >= 1000:
		return "1080p"
	case height >= 700:
		return "720p"
	case height >= 560:
		return "576p"
	case height >= 460:
		return "480p"
	default:
		return fmt.Sprintf("%dp", height)
	}
}
