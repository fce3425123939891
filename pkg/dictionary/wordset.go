package dictionary

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
)

// WordSet is an immutable hashed set of lowercase words. It is safe for
// concurrent use.
type WordSet struct {
	words       map[string]struct{}
	maxLen      int
	fingerprint string
}

// NewWordSet folds every entry and keeps the usable ones.
func NewWordSet(entries []string) *WordSet {
	f := NewFolder()
	words := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if w, ok := f.Fold(e); ok {
			words[w] = struct{}{}
		}
	}
	return build(words)
}

// ReadWordSet reads one entry per line from r.
func ReadWordSet(r io.Reader) (*WordSet, error) {
	f := NewFolder()
	words := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if w, ok := f.Fold(sc.Text()); ok {
			words[w] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyWordSet
	}
	return build(words), nil
}

func build(words map[string]struct{}) *WordSet {
	s := &WordSet{words: words}

	h := sha256.New()
	for _, w := range s.Words() {
		s.maxLen = max(s.maxLen, len(w))
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	s.fingerprint = hex.EncodeToString(h.Sum(nil))[:16]
	return s
}

// Has reports whether the lowercase word is in the set.
func (s *WordSet) Has(word []byte) bool {
	_, ok := s.words[string(word)]
	return ok
}

func (s *WordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

func (s *WordSet) Len() int {
	return len(s.words)
}

func (s *WordSet) MaxLen() int {
	return s.maxLen
}

// Fingerprint identifies the set's contents. Two sets with the same words
// share a fingerprint.
func (s *WordSet) Fingerprint() string {
	return s.fingerprint
}

// Words returns the words in ascending order.
func (s *WordSet) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
