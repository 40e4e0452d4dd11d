package local

import (
	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/treeview"
)

const providerName = "local"

// Parser builds a video record from a local file name.
type Parser interface {
	Parse(name string, node *treeview.Node[treeview.FileInfo]) (*provider.Video, error)
	CanParse(name string, node *treeview.Node[treeview.FileInfo]) bool
}

// ParserEngine routes files to the episode or movie parser.
type ParserEngine struct {
	parsers map[provider.MediaType]Parser
}

// NewParserEngine creates a parser engine for episodes and movies.
func NewParserEngine() *ParserEngine {
	return &ParserEngine{
		parsers: map[provider.MediaType]Parser{
			provider.MediaTypeEpisode: NewEpisodeParser(),
			provider.MediaTypeMovie:   NewMovieParser(),
		},
	}
}

// Parse parses name as the given media type.
func (e *ParserEngine) Parse(mediaType provider.MediaType, name string, node *treeview.Node[treeview.FileInfo]) (*provider.Video, error) {
	parser, ok := e.parsers[mediaType]
	if !ok {
		return nil, provider.ErrUnsupportedMediaType
	}
	return parser.Parse(name, node)
}

// DetectNode identifies a video file node and parses it into a video record.
func (e *ParserEngine) DetectNode(node *treeview.Node[treeview.FileInfo]) (*provider.Video, error) {
	mediaType, err := DetectMediaType(node)
	if err != nil {
		return nil, err
	}
	return e.Parse(mediaType, node.Name(), node)
}

// DetectMediaType decides whether a video file node is an episode or a
// movie. Anything numbered like an episode is an episode. Directories and
// non-video files are rejected.
func DetectMediaType(node *treeview.Node[treeview.FileInfo]) (provider.MediaType, error) {
	if node == nil {
		return "", invalidRequest("node is required for detection")
	}
	name := node.Name()
	if node.Data().IsDir() || !IsVideo(name) {
		return "", invalidRequest("not a video file: " + name)
	}

	if _, _, ok := newVideoFile(name, node).seasonEpisode(); ok {
		return provider.MediaTypeEpisode, nil
	}
	return provider.MediaTypeMovie, nil
}

func invalidRequest(msg string) error {
	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeInvalidRequest,
		Message:  msg,
	}
}

// videoPath returns the full path of the node, falling back to the name.
func videoPath(name string, node *treeview.Node[treeview.FileInfo]) string {
	if node != nil {
		if path := node.Data().Path; path != "" {
			return path
		}
	}
	return name
}
