package dictionary

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinWordLength is the shortest word kept in a WordSet.
const MinWordLength = 2

// Folder canonicalizes raw dictionary entries. It is not safe for
// concurrent use; create one per loader.
type Folder struct {
	t transform.Transformer
}

func NewFolder() *Folder {
	return &Folder{
		t: transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			cases.Fold(),
			norm.NFC,
		),
	}
}

// Fold returns the canonical lowercase form of word and whether it is usable
// as a dictionary entry.
func (f *Folder) Fold(word string) (string, bool) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", false
	}

	folded, _, err := transform.String(f.t, word)
	if err != nil {
		return "", false
	}

	if len(folded) < MinWordLength {
		return "", false
	}
	for i := 0; i < len(folded); i++ {
		if folded[i] < 'a' || folded[i] > 'z' {
			return "", false
		}
	}
	return folded, true
}

// Canonical folds a single word with a fresh Folder.
func Canonical(word string) (string, bool) {
	return NewFolder().Fold(word)
}
