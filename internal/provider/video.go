package provider

import (
	"fmt"
	"path/filepath"
)

// Video is a media file that has already been partly identified from its
// local name. Refinement fills in the fields the local name cannot provide.
type Video struct {
	// Name is the path of the local file.
	Name      string
	MediaType MediaType

	// Episode identification. Season 0 holds specials, so absence is nil.
	Series       string
	Season       *int
	Episode      *int
	SeriesTVDBID int

	// Movie identification
	Title  string
	IMDBID string

	Year string

	// Refined attributes
	ReleaseGroup string
	Format       string
	Resolution   string
	VideoCodec   string
	AudioCodec   string
	OriginalName string
}

// NewEpisode creates an episode video.
func NewEpisode(name, series string, season, episode int) *Video {
	return &Video{
		Name:      name,
		MediaType: MediaTypeEpisode,
		Series:    series,
		Season:    &season,
		Episode:   &episode,
	}
}

// NewMovie creates a movie video.
func NewMovie(name, title, year string) *Video {
	return &Video{
		Name:      name,
		MediaType: MediaTypeMovie,
		Title:     title,
		Year:      year,
	}
}

// Ext returns the file extension of the video name including the dot.
func (v *Video) Ext() string {
	return filepath.Ext(v.Name)
}

// BaseName returns the final path element of the video name.
func (v *Video) BaseName() string {
	return filepath.Base(v.Name)
}

// Attr returns the value of a refinable attribute by its snake_case name.
func (v *Video) Attr(name string) string {
	switch name {
	case "release_group":
		return v.ReleaseGroup
	case "format":
		return v.Format
	case "resolution":
		return v.Resolution
	case "video_codec":
		return v.VideoCodec
	case "audio_codec":
		return v.AudioCodec
	case "original_name":
		return v.OriginalName
	}
	return ""
}

// SetAttr sets a refinable attribute by its snake_case name.
func (v *Video) SetAttr(name, value string) error {
	switch name {
	case "release_group":
		v.ReleaseGroup = value
	case "format":
		v.Format = value
	case "resolution":
		v.Resolution = value
	case "video_codec":
		v.VideoCodec = value
	case "audio_codec":
		v.AudioCodec = value
	case "original_name":
		v.OriginalName = value
	default:
		return fmt.Errorf("unknown video attribute %q", name)
	}
	return nil
}

// Label returns a short human readable description used in logs and progress.
func (v *Video) Label() string {
	switch v.MediaType {
	case MediaTypeEpisode:
		if v.Season != nil && v.Episode != nil {
			return fmt.Sprintf("%s S%02dE%02d", v.Series, *v.Season, *v.Episode)
		}
		return v.Series
	case MediaTypeMovie:
		if v.Year != "" {
			return fmt.Sprintf("%s (%s)", v.Title, v.Year)
		}
		return v.Title
	}
	return v.BaseName()
}

// Guess is the outcome of running the filename heuristic on a release name.
type Guess struct {
	Type         MediaType
	Title        string
	Series       string
	Season       int
	Episode      int
	Year         int
	ReleaseGroup string
	Format       string
	Resolution   string
	VideoCodec   string
	Container    string
}

// Get returns a guessed attribute and whether the heuristic found it.
func (g Guess) Get(attr string) (string, bool) {
	var value string
	switch attr {
	case "release_group":
		value = g.ReleaseGroup
	case "format":
		value = g.Format
	case "resolution":
		value = g.Resolution
	case "video_codec":
		value = g.VideoCodec
	case "container":
		value = g.Container
	case "title":
		value = g.Title
	case "series":
		value = g.Series
	}
	return value, value != ""
}
