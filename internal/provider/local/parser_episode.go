package local

import (
	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/treeview"
)

// EpisodeParser reads series, season and episode from an episode file.
type EpisodeParser struct{}

func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse identifies series, season and episode from a filename and its parents.
func (p *EpisodeParser) Parse(name string, node *treeview.Node[treeview.FileInfo]) (*provider.Video, error) {
	f := newVideoFile(name, node)

	season, episode, ok := f.seasonEpisode()
	if !ok {
		return nil, invalidRequest("could not extract season and episode numbers from: " + name)
	}

	series, year := f.series()
	video := provider.NewEpisode(videoPath(name, node), series, season, episode)
	video.Year = year
	return video, nil
}

func (p *EpisodeParser) CanParse(name string, node *treeview.Node[treeview.FileInfo]) bool {
	if !IsVideo(name) {
		return false
	}
	_, _, ok := newVideoFile(name, node).seasonEpisode()
	return ok
}
