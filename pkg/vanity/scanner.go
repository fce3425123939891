package vanity

// WordSet is a read-only set of lowercase words.
type WordSet interface {
	// Has reports whether the lowercase word is in the set.
	Has(word []byte) bool
	// MaxLen returns the length of the longest word in the set.
	MaxLen() int
}

// Match is a dictionary word found in a combination at [Start, End).
type Match struct {
	Start       int
	End         int
	Combination Combination
}

// Word returns the matched characters as they appear in the combination.
func (m Match) Word() string {
	return string(m.Combination[m.Start:m.End])
}

// MinWordLength is the shortest window the scanner looks up.
const MinWordLength = 2

type run struct {
	start, end int
}

// Scanner finds every dictionary word embedded in the combinations of one
// Sets. Windows that touch a position without letters are never looked up.
type Scanner struct {
	words  WordSet
	runs   []run
	maxLen int
}

// NewScanner prepares a scanner for combinations drawn from sets.
func NewScanner(words WordSet, sets Sets) *Scanner {
	s := &Scanner{
		words:  words,
		maxLen: words.MaxLen(),
	}

	start := -1
	for i := 0; i <= Length; i++ {
		letters := i < Length && hasLetters(sets[i])
		switch {
		case letters && start < 0:
			start = i
		case !letters && start >= 0:
			if i-start >= MinWordLength {
				s.runs = append(s.runs, run{start: start, end: i})
			}
			start = -1
		}
	}
	return s
}

func hasLetters(set []byte) bool {
	for _, c := range set {
		if c >= 'A' && c <= 'Z' {
			return true
		}
	}
	return false
}

// Scan calls fn for every window of at least two letters in c whose
// lowercase form is in the word set.
func (s *Scanner) Scan(c Combination, fn func(Match)) {
	if s.maxLen < MinWordLength || len(s.runs) == 0 {
		return
	}

	var lower [Length]byte
	for i, ch := range c {
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		lower[i] = ch
	}

	for _, r := range s.runs {
		for i := r.start; i < r.end-1; i++ {
			last := min(r.end, i+s.maxLen)
			for j := i + MinWordLength; j <= last; j++ {
				if s.words.Has(lower[i:j]) {
					fn(Match{Start: i, End: j, Combination: c})
				}
			}
		}
	}
}
