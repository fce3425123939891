package vanity

import (
	"slices"
	"strings"
)

// Candidate is one rendered vanity number, e.g. "800-LOVE-000".
type Candidate string

// Layout controls how a match is rendered.
type Layout int

const (
	// LayoutFull renders digits[:i]-WORD-digits[j:] over all ten digits.
	LayoutFull Layout = iota
	// LayoutAreaCode keeps the area code apart:
	// AAA-digits[3:i]-WORD-digits[j:].
	LayoutAreaCode
)

// AreaCodeLength is the number of leading digits LayoutAreaCode keeps as-is.
const AreaCodeLength = 3

func (l Layout) String() string {
	switch l {
	case LayoutAreaCode:
		return "area_code"
	default:
		return "full"
	}
}

// Format renders m against the original digits.
func (l Layout) Format(digits DigitSequence, m Match) Candidate {
	var b strings.Builder
	b.Grow(Length + 4)

	prefix := string(digits[:m.Start])
	if l == LayoutAreaCode && m.Start >= AreaCodeLength {
		b.WriteString(string(digits[:AreaCodeLength]))
		b.WriteByte('-')
		prefix = string(digits[AreaCodeLength:m.Start])
	}

	b.WriteString(prefix)
	b.WriteByte('-')
	b.Write(m.Combination[m.Start:m.End])
	b.WriteByte('-')
	b.WriteString(string(digits[m.End:]))
	return Candidate(b.String())
}

// Format renders m with LayoutFull.
func Format(digits DigitSequence, m Match) Candidate {
	return LayoutFull.Format(digits, m)
}

// CandidateSet collects unique candidates. It is not safe for concurrent use.
type CandidateSet struct {
	items map[Candidate]struct{}
}

// NewCandidateSet returns an empty set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{items: make(map[Candidate]struct{})}
}

// Add inserts c. Duplicates are ignored.
func (s *CandidateSet) Add(c Candidate) {
	s.items[c] = struct{}{}
}

// Merge adds every candidate of other to s.
func (s *CandidateSet) Merge(other *CandidateSet) {
	for c := range other.items {
		s.items[c] = struct{}{}
	}
}

// Contains reports whether c was added.
func (s *CandidateSet) Contains(c Candidate) bool {
	_, ok := s.items[c]
	return ok
}

// Len returns the number of unique candidates.
func (s *CandidateSet) Len() int {
	return len(s.items)
}

// Sorted returns the candidates in ascending byte order.
func (s *CandidateSet) Sorted() []Candidate {
	out := make([]Candidate, 0, len(s.items))
	for c := range s.items {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Strings converts candidates to plain strings.
func Strings(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = string(c)
	}
	return out
}
