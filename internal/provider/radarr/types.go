package radarr

import "encoding/gob"

func init() {
	gob.Register([]Movie(nil))
}

// Movie is an entry of the movie endpoint.
type Movie struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Year      int        `json:"year"`
	ImdbID    string     `json:"imdbId"`
	TmdbID    int        `json:"tmdbId"`
	HasFile   bool       `json:"hasFile"`
	MovieFile *MovieFile `json:"movieFile"`
}

// MovieFile is the imported file of a movie.
type MovieFile struct {
	ID           int    `json:"id"`
	RelativePath string `json:"relativePath"`
	SceneName    string `json:"sceneName"`
	ReleaseGroup string `json:"releaseGroup"`
}
