package ranking

import (
	"context"
	"slices"
	"strings"
)

// HeuristicOracle ranks candidates locally. Longer words win, then words
// that leave fewer loose digits around them, then byte order.
type HeuristicOracle struct{}

func NewHeuristicOracle() *HeuristicOracle {
	return &HeuristicOracle{}
}

func (o *HeuristicOracle) Name() string {
	return "heuristic"
}

func (o *HeuristicOracle) Rank(_ context.Context, candidates []string) (Result, error) {
	top := Shortlist(candidates, MaxSelections)
	phonetics := make([]string, len(top))
	for i, c := range top {
		phonetics[i] = Phonetic(c)
	}
	return Validate(candidates, top, phonetics, MaxSelections)
}

type scored struct {
	candidate string
	wordLen   int
	groups    int
}

// Shortlist returns the n best candidates by heuristic score.
func Shortlist(candidates []string, n int) []string {
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		prefix, word, suffix, ok := split(c)
		if !ok {
			continue
		}
		groups := 0
		if prefix != "" {
			groups++
		}
		if suffix != "" {
			groups++
		}
		ranked = append(ranked, scored{candidate: c, wordLen: len(word), groups: groups})
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		if a.wordLen != b.wordLen {
			return b.wordLen - a.wordLen
		}
		if a.groups != b.groups {
			return a.groups - b.groups
		}
		return strings.Compare(a.candidate, b.candidate)
	})

	out := make([]string, 0, min(n, len(ranked)))
	for _, s := range ranked[:min(n, len(ranked))] {
		out = append(out, s.candidate)
	}
	return out
}

// split breaks a candidate into its digits before the word, the word and the
// digits after it. The area-code layout keeps its leading group in prefix.
func split(candidate string) (prefix, word, suffix string, ok bool) {
	j := strings.LastIndexByte(candidate, '-')
	if j < 0 {
		return "", "", "", false
	}
	i := strings.LastIndexByte(candidate[:j], '-')
	if i < 0 {
		return "", "", "", false
	}
	return candidate[:i], candidate[i+1 : j], candidate[j+1:], true
}

var digitNames = [10]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
}

// Phonetic renders a candidate for text-to-speech: digits are spelled out one
// by one and the word is spoken as a word.
func Phonetic(candidate string) string {
	prefix, word, suffix, ok := split(candidate)
	if !ok {
		return candidate
	}

	var parts []string
	spell := func(digits string) {
		for _, d := range digits {
			if d >= '0' && d <= '9' {
				parts = append(parts, digitNames[d-'0'])
			}
		}
	}
	spell(prefix)
	parts = append(parts, strings.ToLower(word))
	spell(suffix)
	return strings.Join(parts, " ")
}
