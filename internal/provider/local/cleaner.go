package local

import "strings"

var separators = strings.NewReplacer(".", " ", "-", " ", "_", " ")

// ExtractNameAndYear splits a release or folder name into a readable title
// and the first year found. Everything from the year on is dropped, as are
// quality and encoding tags.
func ExtractNameAndYear(name string) (string, string) {
	var year string
	if m := yearRangeRe.FindStringSubmatch(name); m != nil {
		year = m[1]
		if i := strings.Index(name, year); i >= 0 {
			name = strings.TrimRight(name[:i], " ([{-_")
		}
	}

	name = separators.Replace(name)
	name = encodingTagsRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " "), year
}

// CleanSceneName strips indexer and obfuscation tails from a release name.
// A bracketed tag glued to the release group is dropped while the group
// itself is kept. A trailing file extension survives either way.
func CleanSceneName(name string) string {
	m := sceneCrapRe.FindStringSubmatchIndex(name)
	if m == nil {
		return name
	}

	var kept string
	if m[4] >= 0 {
		kept = name[m[4]:m[5]]
	}
	if m[8] >= 0 {
		kept += name[m[8]:m[9]]
	}
	return name[:m[0]] + kept
}

// folderSeries reads a series title from a folder name. Season folders
// only count when the series is named in front of the season, as in
// "Show.S01.1080p" or "Show Season 2".
func folderSeries(name string) (string, string) {
	if idx := FindSeasonEpisodeIndex(name); idx > 0 {
		if title, year := ExtractNameAndYear(strings.TrimRight(name[:idx], ".-_ ")); title != "" {
			return title, year
		}
	}

	if _, ok := ExtractSeasonNumber(name); ok {
		loc := seasonMarkerRe.FindStringIndex(name)
		if loc == nil {
			return "", ""
		}
		return ExtractNameAndYear(strings.TrimRight(name[:loc[0]], ".-_ "))
	}

	return ExtractNameAndYear(name)
}
