package vanity

import "fmt"

// Length is the number of digits in a normalized phone number.
const Length = 10

// DigitSequence is a normalized 10-digit phone number.
type DigitSequence string

// Normalize strips every non-digit from raw. Ten digits are used as-is and
// eleven digits are accepted only with a leading country code of 1, which is
// dropped. Anything else fails with ErrInvalidFormat.
func Normalize(raw string) (DigitSequence, error) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	switch len(digits) {
	case Length:
		return DigitSequence(digits), nil
	case Length + 1:
		if digits[0] != '1' {
			return "", fmt.Errorf("%w: country code %q is not supported", ErrInvalidFormat, digits[0])
		}
		return DigitSequence(digits[1:]), nil
	default:
		return "", fmt.Errorf("%w: expected 10 or 11 digits, got %d", ErrInvalidFormat, len(digits))
	}
}

// Valid reports whether d is exactly 10 ASCII digits.
func (d DigitSequence) Valid() bool {
	if len(d) != Length {
		return false
	}
	for i := 0; i < Length; i++ {
		if d[i] < '0' || d[i] > '9' {
			return false
		}
	}
	return true
}

// AreaCode returns the first three digits.
func (d DigitSequence) AreaCode() string {
	return string(d[:3])
}

func (d DigitSequence) String() string {
	return string(d)
}
