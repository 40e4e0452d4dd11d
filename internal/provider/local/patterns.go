package local

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	seasonRe    = regexp.MustCompile(`(?i)\b(?:s|season)\.? *(\d+)\b`)
	seasonAltRe = regexp.MustCompile(`(?i)(?:^|[\s\.\-_])(?:s|season)[\s\.\-_]+(\d+)`)
	bareNumRe   = regexp.MustCompile(`^\d+$`)

	// A season marker preceded by a non-letter, like " Season 2" or ".S01"
	seasonMarkerRe = regexp.MustCompile(`[^\p{L}](?:season|Season|SEASON|S|s)[\d\s]`)

	seasonEpisodeRe       = regexp.MustCompile(`(?i)[sx]?(\d+)[ex](\d+)`)
	dottedSeasonEpisodeRe = regexp.MustCompile(`(?i)(?:^|[\s_\-\.])([0-9]{1,2})[\. _-]([0-9]{1,2})(?:[^0-9]|$)`)
	episodeNumberRe       = regexp.MustCompile(`(?:^|[\s\.\-_]|[Ee])(\d+)(?:[\s\.\-_]|$)`)

	videoRe  = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx)$`)
	sampleRe = regexp.MustCompile(`(?i)(?:^|[\s._-])sample(?:[\s._-]|$)`)

	yearRangeRe = regexp.MustCompile(`(?:^|[^\d])((19|20)\d{2})(?:[\s\-–—]+(?:19|20)\d{2})?(?:[^\d]|$)`)

	encodingTagsRe = regexp.MustCompile(`(?i)\b(?:HD|HDR|DV|x265|x264|H\.?264|H\.?265|HEVC|AVC|AAC|AC3|DD|DTS|FLAC|MP3|WEB-?DL|BluRay|BDRip|DVDRip|HDTV|720p|1080p|2160p|4K|UHD|SDR|10bit|8bit|PROPER|REPACK|iNTERNAL|LiMiTED|UNRATED|EXTENDED|DiRECTORS?\.?CUT|THEATRICAL|COMPLETE|SEASON|SERIES|MULTI|DUAL|DUBBED|SUBBED|SUB|RETAIL|WS|FS|NTSC|PAL|R[1-6]|UNCUT|UNCENSORED)\b`)

	// Indexer and obfuscation tails on scene names. Group 1 is a tag to drop,
	// groups 2 and 3 are a release group, bare or after a separator, followed
	// by a bracketed tag. Group 4 is the extension.
	sceneCrapRe = regexp.MustCompile(`(?i)(?:([\s_-]+(?:obfuscated|scrambled|nzbgeek|chamele0n|buymore|xpost|postbot|asrequested)(?:\[.+\])?)|((?:^|[\s_-])\w{2,})(\[.+\]))(\.\w+)?$`)

	// Where the season or episode part of a name starts
	seasonEpisodeStartRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[sx]?\d+[ex]\d+`),
		regexp.MustCompile(`(?i)[\s._-](?:s|season)[\s._-]*\d+`),
		regexp.MustCompile(`(?i)^(?:s|season)[\s._-]*\d+`),
		regexp.MustCompile(`\b\d{1,2}[\. _-]\d{1,2}\b`),
		regexp.MustCompile(`(?i)^[eE]\d+`),
		regexp.MustCompile(`(?i)^Episode[\s._-]*\d+`),
	}
)

// IsVideo checks if the filename has a video extension
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSample reports whether the name marks a sample clip, either as a
// separate word or as the whole base name.
func IsSample(name string) bool {
	return sampleRe.MatchString(strings.TrimSuffix(name, fileExt(name)))
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// ExtractSeasonNumber reads a season number from a folder name such as
// "Season 02", "S01" or a bare "3". Season 0 holds specials.
func ExtractSeasonNumber(input string) (int, bool) {
	if n, ok := firstInt(input, seasonRe, seasonAltRe); ok {
		return n, true
	}

	trimmed := strings.TrimSpace(input)
	if !bareNumRe.MatchString(trimmed) {
		return 0, false
	}
	// Years are not seasons
	n, err := strconv.Atoi(trimmed)
	if err != nil || n > 100 {
		return 0, false
	}
	return n, true
}

// FindSeasonEpisodeIndex returns where the season or episode part of a
// name starts, or -1.
func FindSeasonEpisodeIndex(name string) int {
	earliest := -1
	for _, re := range seasonEpisodeStartRes {
		if loc := re.FindStringIndex(name); loc != nil && (earliest == -1 || loc[0] < earliest) {
			earliest = loc[0]
		}
	}
	return earliest
}

func firstInt(input string, res ...*regexp.Regexp) (int, bool) {
	for _, re := range res {
		m := re.FindStringSubmatch(input)
		if len(m) < 2 {
			continue
		}
		for _, group := range m[1:] {
			if n, err := strconv.Atoi(group); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
