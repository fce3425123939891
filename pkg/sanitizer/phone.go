package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "US"

// NormalizePhone returns phone in E.164 form, or "" when it cannot be parsed
// as a North American number.
func NormalizePhone(phone string) string {
	phone = TrimAndNormalize(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil || parsed.GetCountryCode() != 1 {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// E164FromDigits returns the storage key for a normalized 10-digit North
// American number.
func E164FromDigits(digits string) string {
	if e164 := NormalizePhone("+1" + digits); e164 == "+1"+digits {
		return e164
	}
	return "+1" + strings.TrimPrefix(digits, "+")
}
