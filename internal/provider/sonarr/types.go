package sonarr

import "encoding/gob"

func init() {
	// Series lists are stored in the persisted list cache.
	gob.Register([]Series(nil))
}

// Series is an entry of the series endpoint.
type Series struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	TvdbID int    `json:"tvdbId"`
	Year   int    `json:"year"`
	Path   string `json:"path"`
}

// Episode is an entry of the episode endpoint.
type Episode struct {
	ID            int          `json:"id"`
	SeriesID      int          `json:"seriesId"`
	SeasonNumber  int          `json:"seasonNumber"`
	EpisodeNumber int          `json:"episodeNumber"`
	Title         string       `json:"title"`
	HasFile       bool         `json:"hasFile"`
	EpisodeFileID int          `json:"episodeFileId"`
	EpisodeFile   *EpisodeFile `json:"episodeFile"`
}

// EpisodeFile is the imported file of an episode.
type EpisodeFile struct {
	ID           int    `json:"id"`
	RelativePath string `json:"relativePath"`
	SceneName    string `json:"sceneName"`
	ReleaseGroup string `json:"releaseGroup"`
}
