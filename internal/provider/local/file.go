package local

import (
	"strconv"
	"strings"

	"github.com/Digital-Shane/treeview"
)

// videoFile is a file name prepared for matching. The node, when present,
// gives access to the folders above the file.
type videoFile struct {
	name string
	stem string
	node *treeview.Node[treeview.FileInfo]
}

func newVideoFile(name string, node *treeview.Node[treeview.FileInfo]) videoFile {
	return videoFile{
		name: name,
		stem: strings.TrimSuffix(name, fileExt(name)),
		node: node,
	}
}

// ancestors returns the names of up to limit enclosing folders, nearest first.
func (f videoFile) ancestors(limit int) []string {
	if f.node == nil {
		return nil
	}
	var names []string
	for p := f.node.Parent(); p != nil && len(names) < limit; p = p.Parent() {
		names = append(names, p.Name())
	}
	return names
}

// seasonEpisode finds the season and episode numbers. A name that only
// numbers the episode takes its season from an enclosing season folder, or
// season 0 when it is plainly an episode ("E05", "Episode 7").
func (f videoFile) seasonEpisode() (int, int, bool) {
	for _, s := range f.candidates() {
		if season, episode, ok := parseSeasonEpisode(s); ok {
			return season, episode, true
		}
	}

	episode, ok := 0, false
	for _, s := range f.candidates() {
		if episode, ok = firstInt(s, episodeNumberRe); ok {
			break
		}
	}
	if !ok {
		return 0, 0, false
	}

	for _, dir := range f.ancestors(3) {
		if season, ok := ExtractSeasonNumber(dir); ok {
			return season, episode, true
		}
	}

	lower := strings.ToLower(f.stem)
	if episode > 0 && (strings.HasPrefix(lower, "e") || strings.Contains(lower, "episode")) {
		return 0, episode, true
	}
	return 0, 0, false
}

// candidates lists the strings worth matching, stem first.
func (f videoFile) candidates() []string {
	if f.stem == f.name {
		return []string{f.name}
	}
	return []string{f.stem, f.name}
}

// series finds the series title and year, preferring the text in front of
// the episode marker and falling back to the enclosing folders.
func (f videoFile) series() (string, string) {
	if idx := FindSeasonEpisodeIndex(f.stem); idx > 0 {
		if title, year := ExtractNameAndYear(strings.TrimRight(f.stem[:idx], ".-_ ")); title != "" {
			return title, year
		}
	}
	for _, dir := range f.ancestors(3) {
		if title, year := folderSeries(dir); title != "" {
			return title, year
		}
	}
	return "", ""
}

// titleAndYear reads the file stem as "Title Year ...".
func (f videoFile) titleAndYear() (string, string) {
	return ExtractNameAndYear(f.stem)
}

// parseSeasonEpisode matches "S01E02" or "1x02" and then the dotted "1.04"
// form. The dotted form is range checked since it also matches audio
// channels and versions.
func parseSeasonEpisode(s string) (int, int, bool) {
	if m := seasonEpisodeRe.FindStringSubmatch(s); m != nil {
		season, err1 := strconv.Atoi(m[1])
		episode, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return season, episode, true
		}
	}
	if m := dottedSeasonEpisodeRe.FindStringSubmatch(s); m != nil {
		season, _ := strconv.Atoi(m[1])
		episode, _ := strconv.Atoi(m[2])
		if season > 0 && season <= 100 && episode > 0 && episode <= 300 {
			return season, episode, true
		}
	}
	return 0, 0, false
}
