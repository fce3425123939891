package vanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(e *Enumerator) []string {
	var out []string
	for {
		c, ok := e.Next()
		if !ok {
			return out
		}
		out = append(out, c.String())
	}
}

func TestEnumerator_CountMatchesProduct(t *testing.T) {
	tests := []struct {
		digits DigitSequence
		want   uint64
	}{
		{"0101010101", 1},
		{"2300000000", 9},
		{"7900000000", 16},
		{"2345600000", 243},
		{"8005551234", 3 * 3 * 3 * 3 * 3 * 3 * 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.digits), func(t *testing.T) {
			e := NewEnumerator(Expand(tt.digits))
			assert.Equal(t, tt.want, e.Count())
			assert.Len(t, collect(e), int(tt.want))
		})
	}
}

func TestEnumerator_OdometerOrder(t *testing.T) {
	got := collect(NewEnumerator(Expand("2300000000")))
	want := []string{
		"AD00000000", "AE00000000", "AF00000000",
		"BD00000000", "BE00000000", "BF00000000",
		"CD00000000", "CE00000000", "CF00000000",
	}
	assert.Equal(t, want, got)
}

func TestEnumerator_Unique(t *testing.T) {
	all := collect(NewEnumerator(Expand("7979000000")))
	seen := make(map[string]struct{}, len(all))
	for _, c := range all {
		_, dup := seen[c]
		require.False(t, dup, "duplicate combination %s", c)
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, 256)
}

func TestRangeEnumerator_ShardsCoverFullProduct(t *testing.T) {
	sets := Expand("2345678900")
	full := collect(NewEnumerator(sets))
	total := CombinationCount(sets)

	for _, shards := range []uint64{1, 2, 3, 7, 64} {
		size := (total + shards - 1) / shards
		var joined []string
		for k := uint64(0); k < shards; k++ {
			lo := k * size
			joined = append(joined, collect(NewRangeEnumerator(sets, lo, lo+size))...)
		}
		assert.Equal(t, full, joined, "shards=%d", shards)
	}
}

func TestEnumerator_Seek(t *testing.T) {
	sets := Expand("2345000000")
	full := collect(NewEnumerator(sets))

	e := NewEnumerator(sets)
	e.Seek(40)
	c, ok := e.Next()
	require.True(t, ok)
	assert.Equal(t, full[40], c.String())
	assert.Equal(t, uint64(41), e.Position())

	e.Seek(uint64(len(full)))
	_, ok = e.Next()
	assert.False(t, ok)
}

func TestSets_Pin(t *testing.T) {
	sets := Expand("2345678923")
	sets.Pin("2345678923", AreaCodeLength)
	assert.Equal(t, []byte("2"), sets[0])
	assert.Equal(t, []byte("3"), sets[1])
	assert.Equal(t, []byte("4"), sets[2])
	assert.Equal(t, []byte("JKL"), sets[3])
	assert.Equal(t, uint64(3*3*4*3*4*3*3), CombinationCount(sets))
}

func TestKeypad(t *testing.T) {
	k := Keypad()
	assert.Equal(t, []byte("0"), k.Substitutions('0'))
	assert.Equal(t, []byte("1"), k.Substitutions('1'))
	assert.Equal(t, []byte("PQRS"), k.Substitutions('7'))
	assert.Equal(t, []byte("WXYZ"), k.Substitutions('9'))
	assert.Nil(t, k.Substitutions('*'))
	assert.True(t, IsSeparator('0'))
	assert.True(t, IsSeparator('1'))
	assert.False(t, IsSeparator('2'))
}
