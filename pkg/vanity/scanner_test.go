package vanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanner_Runs(t *testing.T) {
	s := NewScanner(newTestWords("ab"), Expand("2210345601"))
	assert.Equal(t, []run{{start: 0, end: 2}, {start: 4, end: 8}}, s.runs)
}

func TestScanner_EmitsEveryWindow(t *testing.T) {
	words := newTestWords("cat", "at", "ca")
	s := NewScanner(words, Expand("2280000000"))

	var c Combination
	copy(c[:], "CAT0000000")

	var got []string
	s.Scan(c, func(m Match) {
		got = append(got, m.Word())
	})
	assert.ElementsMatch(t, []string{"CA", "CAT", "AT"}, got)
}

func TestScanner_RespectsMaxLen(t *testing.T) {
	s := NewScanner(newTestWords("ad"), Expand("2323232323"))
	var c Combination
	copy(c[:], "ADADADADAD")

	count := 0
	s.Scan(c, func(m Match) {
		assert.Equal(t, 2, m.End-m.Start)
		count++
	})
	assert.Equal(t, 5, count)
}

func TestScanner_EmptyWordSet(t *testing.T) {
	s := NewScanner(newTestWords(), Expand("2222222222"))
	var c Combination
	copy(c[:], "AAAAAAAAAA")
	s.Scan(c, func(Match) {
		t.Fatal("no match expected")
	})
}
