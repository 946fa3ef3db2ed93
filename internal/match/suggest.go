package match

import (
	"sort"
	"strings"
)

// DefaultMinScore is the similarity a candidate needs to be suggested.
const DefaultMinScore = 0.6

// DefaultMaxSuggestions caps the number of suggestions per diagnostic.
const DefaultMaxSuggestions = 3

// Suggestion is a candidate name with its similarity to the looked-up name.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name and returns those at or above
// minScore, best first. Ties are broken by name.
func Rank(name string, candidates []string, minScore float64) []Suggestion {
	key := foldName(name)

	var out []Suggestion

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := Similarity(key, foldName(c))
		if score < minScore {
			continue
		}

		out = append(out, Suggestion{Name: c, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns up to DefaultMaxSuggestions candidate names close to name.
func Suggest(name string, candidates []string) []string {
	ranked := Rank(name, candidates, DefaultMinScore)
	if len(ranked) > DefaultMaxSuggestions {
		ranked = ranked[:DefaultMaxSuggestions]
	}

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.Name
	}

	return out
}

// foldName lowercases name and drops separators, so "Shop.order_line" and
// "Shop.OrderLine" compare equal.
func foldName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}

		return r
	}, strings.ToLower(name))
}
