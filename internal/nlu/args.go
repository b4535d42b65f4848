package nlu

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLocation is used when a weather request names no place.
const DefaultLocation = "New York"

func strip(u string, phrases ...string) string {
	for _, p := range phrases {
		u = strings.ReplaceAll(u, p, "")
	}
	return strings.TrimSpace(u)
}

// SearchQuery extracts what to search for. Empty means the user did not say.
func SearchQuery(utterance string) string {
	return strip(Normalize(utterance), "search for", "search")
}

var title = cases.Title(language.English)

// WeatherLocation extracts the place of a weather request, title-cased
// because transcripts arrive lower-cased.
func WeatherLocation(utterance string) string {
	loc := strip(Normalize(utterance), "weather in", "weather")
	if loc == "" {
		return DefaultLocation
	}
	return title.String(loc)
}

// Mentions reports whether the utterance names the given word.
func Mentions(utterance, word string) bool {
	return strings.Contains(Normalize(utterance), word)
}
