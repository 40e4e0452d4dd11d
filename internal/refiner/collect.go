package refiner

import (
	"context"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/provider/local"
	"github.com/Digital-Shane/treeview"
)

// CollectVideos walks a scanned tree and returns a video record for every
// video file that is not a sample. Directories and other files are ignored.
// Files the parser cannot identify are returned as errors.
func CollectVideos(tree *treeview.Tree[treeview.FileInfo], parser *local.ParserEngine) ([]*provider.Video, []error) {
	if tree == nil {
		return nil, nil
	}
	if parser == nil {
		parser = local.NewParserEngine()
	}

	var (
		videos []*provider.Video
		errs   []error
	)
	for ni := range tree.BreadthFirst(context.Background()) {
		node := ni.Node
		if node == nil || node.Data().IsDir() {
			continue
		}
		name := node.Name()
		if !local.IsVideo(name) || local.IsSample(name) {
			continue
		}

		video, err := parser.DetectNode(node)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		videos = append(videos, video)
	}
	return videos, errs
}
