package nlu

import "strings"

type Intent int

const (
	Unknown Intent = iota
	Search
	Time
	Weather
	Open
	Exit
)

func (i Intent) String() string {
	switch i {
	case Search:
		return "search"
	case Time:
		return "time"
	case Weather:
		return "weather"
	case Open:
		return "open"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Rule maps an utterance to an intent when Match reports true.
type Rule struct {
	Intent Intent
	Match  func(utterance string) bool
}

func contains(words ...string) func(string) bool {
	return func(u string) bool {
		for _, w := range words {
			if strings.Contains(u, w) {
				return true
			}
		}
		return false
	}
}

// Categories overlap ("search the weather"), so order decides.
var rules = []Rule{
	{Intent: Search, Match: contains("search")},
	{Intent: Time, Match: contains("time")},
	{Intent: Weather, Match: contains("weather")},
	{Intent: Open, Match: contains("open")},
	{Intent: Exit, Match: contains("exit", "quit", "goodbye")},
}

// Rules returns the classification table in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Normalize lower-cases and trims an utterance.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// Classify returns the first matching intent. ok is false for empty input,
// which callers treat as a no-op.
func Classify(utterance string) (intent Intent, ok bool) {
	u := Normalize(utterance)
	if u == "" {
		return Unknown, false
	}

	for _, r := range rules {
		if r.Match(u) {
			return r.Intent, true
		}
	}

	return Unknown, true
}
