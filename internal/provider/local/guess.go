package local

import (
	"strings"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/moistari/rls"
)

// GuessFilename parses a release name. The hint decides how the parsed
// title is read: as the series of an episode or as a movie title.
func GuessFilename(name string, hint provider.MediaType) provider.Guess {
	r := rls.ParseString(name)

	guess := provider.Guess{
		Type:         hint,
		Year:         r.Year,
		ReleaseGroup: r.Group,
		Format:       r.Source,
		Resolution:   r.Resolution,
		Container:    r.Container,
	}
	if len(r.Codec) > 0 {
		guess.VideoCodec = r.Codec[0]
	}
	if guess.Container == "" {
		guess.Container = strings.TrimPrefix(r.Ext, ".")
	}

	if guess.Type == "" {
		switch r.Type {
		case rls.Episode, rls.Series:
			guess.Type = provider.MediaTypeEpisode
		default:
			guess.Type = provider.MediaTypeMovie
		}
	}

	switch guess.Type {
	case provider.MediaTypeEpisode:
		guess.Series = r.Title
		guess.Season = r.Series
		guess.Episode = r.Episode
	default:
		guess.Title = r.Title
	}

	return guess
}

// GuessSceneName cleans a scene name, gives it the video's extension and
// parses it. It returns the cleaned name alongside the guess.
func GuessSceneName(video *provider.Video, sceneName string, hint provider.MediaType) (string, provider.Guess) {
	guessFrom := CleanSceneName(sceneName + video.Ext())
	return guessFrom, GuessFilename(guessFrom, hint)
}
