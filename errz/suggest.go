package errz

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions returned.
const MaxSuggestions = 3

// Suggestion is a candidate correction and its edit distance from the input.
type Suggestion struct {
	Value    string
	Distance int
}

// SuggestSimilar returns the candidates closest to target, nearest first.
// Comparison ignores case, so a candidate differing only in case has distance
// 0. Short words tolerate fewer edits: one for up to three characters, two
// for up to five and three otherwise.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" || len(candidates) == 0 {
		return nil
	}
	exact := target
	target = strings.ToLower(target)

	threshold := 3
	switch {
	case len(target) <= 3:
		threshold = 1
	case len(target) <= 5:
		threshold = 2
	}

	var suggestions []Suggestion
	for _, candidate := range candidates {
		if candidate == "" || candidate == exact {
			continue
		}
		if d := editDistance(target, strings.ToLower(candidate)); d <= threshold {
			suggestions = append(suggestions, Suggestion{Value: candidate, Distance: d})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Distance != suggestions[j].Distance {
			return suggestions[i].Distance < suggestions[j].Distance
		}
		return suggestions[i].Value < suggestions[j].Value
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// FormatSuggestions renders suggestions as a question, or "" when there are
// none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// editDistance is the Levenshtein distance between a and b, computed with two
// rolling rows.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return len(rb)
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}
