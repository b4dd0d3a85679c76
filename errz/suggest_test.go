package errz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestSimilar(t *testing.T) {
	mnemonics := []string{"add", "dec", "div", "exit", "jmp", "jmpz", "label", "mul", "pop", "push", "sub"}

	tests := []struct {
		target string
		want   []string
	}{
		{"pusj", []string{"push"}},
		{"PUSH", []string{"push"}},
		{"jmpp", []string{"jmp", "jmpz"}},
		{"lable", []string{"label"}},
		{"xyz", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var got []string
			for _, s := range SuggestSimilar(tt.target, mnemonics) {
				got = append(got, s.Value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestSimilarSkipsExactMatch(t *testing.T) {
	assert.Empty(t, SuggestSimilar("loop", []string{"loop"}))
}

func TestSuggestSimilarLimit(t *testing.T) {
	got := SuggestSimilar("aaaa", []string{"aaab", "aaba", "abaa", "baaa", "aabb"})
	assert.Len(t, got, MaxSuggestions)
	for _, s := range got {
		assert.Equal(t, 1, s.Distance)
	}
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, "", FormatSuggestions(nil))
	assert.Equal(t, "did you mean 'push'?", FormatSuggestions([]Suggestion{{Value: "push"}}))
	assert.Equal(t, "did you mean one of: 'jmp', 'jmpz'?",
		FormatSuggestions([]Suggestion{{Value: "jmp"}, {Value: "jmpz"}}))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("", ""))
	assert.Equal(t, 3, editDistance("", "abc"))
	assert.Equal(t, 1, editDistance("jmp", "jmpz"))
	assert.Equal(t, 2, editDistance("lable", "label"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
}
