package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already E.164", input: "+18005551234", want: "+18005551234"},
		{name: "national with punctuation", input: "(800) 555-1234", want: "+18005551234"},
		{name: "leading country code", input: "1-800-555-1234", want: "+18005551234"},
		{name: "surrounding whitespace", input: "  212 555 0199 ", want: "+12125550199"},
		{name: "non north american", input: "+972501234567", want: ""},
		{name: "letters", input: "not a phone", want: ""},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePhone(got), "must be idempotent")
		})
	}
}

func TestE164FromDigits(t *testing.T) {
	assert.Equal(t, "+18005551234", E164FromDigits("8005551234"))
	assert.Equal(t, "+10000000000", E164FromDigits("0000000000"))
}

func TestTrimAndNormalize(t *testing.T) {
	assert.Equal(t, "a b c", TrimAndNormalize("  a \t b\n\nc "))
	assert.Equal(t, "", TrimAndNormalize(" \n\t "))
	assert.Equal(t, "abc", TrimAndNormalize("abc"))
}
