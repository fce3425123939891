package vanity

import "sync"

// KeypadMap holds the substitution set for every digit, indexed by digit value.
type KeypadMap [10][]byte

var (
	keypadOnce sync.Once
	keypad     KeypadMap
)

// Keypad returns the process-wide keypad. Callers must not modify it.
func Keypad() *KeypadMap {
	keypadOnce.Do(func() {
		letters := [10]string{
			"0", "1", "ABC", "DEF", "GHI", "JKL", "MNO", "PQRS", "TUV", "WXYZ",
		}
		for d, set := range letters {
			keypad[d] = []byte(set)
		}
	})
	return &keypad
}

// Substitutions returns the characters digit d may be rendered as, in keypad order.
func (k *KeypadMap) Substitutions(d byte) []byte {
	if d < '0' || d > '9' {
		return nil
	}
	return k[d-'0']
}

// IsSeparator reports whether d carries no letters.
func IsSeparator(d byte) bool {
	return d == '0' || d == '1'
}

// Sets holds one substitution set per position of a DigitSequence.
type Sets [Length][]byte

// Expand returns the substitution set for every position of d.
func Expand(d DigitSequence) Sets {
	k := Keypad()
	var sets Sets
	for i := 0; i < Length; i++ {
		sets[i] = k.Substitutions(d[i])
	}
	return sets
}

// Pin replaces the sets of the first n positions with the digit itself,
// turning those positions into separators.
func (s *Sets) Pin(d DigitSequence, n int) {
	for i := 0; i < n && i < Length; i++ {
		s[i] = []byte{d[i]}
	}
}
