package cmdshared

import (
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Suggest returns the candidates that best match a name, best first
func Suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	var out []string
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// DidYouMean formats suggestions for an unknown name, or returns an empty string if there are none
func DidYouMean(name string, candidates []string) string {
	suggestions := Suggest(name, candidates)
	if len(suggestions) == 0 {
		return ""
	}
	out := "\nDid you mean:"
	for _, s := range suggestions {
		out += "\n  " + s
	}
	return out
}
