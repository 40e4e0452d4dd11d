package local

import (
	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/treeview"
)

// MovieParser reads title and year from a movie file.
type MovieParser struct{}

func NewMovieParser() *MovieParser {
	return &MovieParser{}
}

// Parse identifies a movie title and year from a filename. When the file
// name carries no year, the parent folder is consulted, since libraries
// usually store movies as "Title (Year)/file.ext".
func (p *MovieParser) Parse(name string, node *treeview.Node[treeview.FileInfo]) (*provider.Video, error) {
	f := newVideoFile(name, node)

	title, year := f.titleAndYear()
	if year == "" || title == "" {
		if dirs := f.ancestors(1); len(dirs) > 0 {
			if dirTitle, dirYear := ExtractNameAndYear(dirs[0]); dirTitle != "" && dirYear != "" {
				title, year = dirTitle, dirYear
			}
		}
	}

	if title == "" {
		return nil, invalidRequest("could not extract a movie title from: " + name)
	}
	return provider.NewMovie(videoPath(name, node), title, year), nil
}

func (p *MovieParser) CanParse(name string, node *treeview.Node[treeview.FileInfo]) bool {
	if node != nil && node.Data().IsDir() {
		return false
	}
	if !IsVideo(name) {
		return false
	}
	_, _, isEpisode := newVideoFile(name, node).seasonEpisode()
	return !isEpisode
}
