// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhone is returned for any input that cannot be canonicalized.
var ErrInvalidPhone = errors.New("invalid phone number format")

const (
	phoneCountryCode = "254"
	phoneRegion      = "KE"
	subscriberDigits = 9
)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone canonicalizes a phone number to "254" followed by the
// 9-digit subscriber number. Accepted input shapes, after stripping
// whitespace, separators and a leading plus:
//
//   - 0XXXXXXXXX   (national trunk format)
//   - 254XXXXXXXXX (already canonical)
//   - XXXXXXXXX    (bare subscriber number starting with 7 or 1)
//
// Anything else fails with ErrInvalidPhone.
func NormalizePhone(input string) (string, error) {
	cleaned := phoneSeparators.Replace(strings.TrimSpace(input))
	cleaned = strings.TrimPrefix(cleaned, "+")

	if cleaned == "" || !isDigits(cleaned) {
		return "", ErrInvalidPhone
	}

	var subscriber string
	switch {
	case len(cleaned) == subscriberDigits+1 && cleaned[0] == '0':
		subscriber = cleaned[1:]
	case len(cleaned) == subscriberDigits+len(phoneCountryCode) && strings.HasPrefix(cleaned, phoneCountryCode):
		subscriber = cleaned[len(phoneCountryCode):]
	case len(cleaned) == subscriberDigits && (cleaned[0] == '7' || cleaned[0] == '1'):
		subscriber = cleaned
	default:
		return "", ErrInvalidPhone
	}

	canonical := phoneCountryCode + subscriber

	parsed, err := phonenumbers.Parse("+"+canonical, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", ErrInvalidPhone
	}

	return canonical, nil
}

// LooksLikePhone reports whether an identifier should be treated as a phone
// number rather than an email address when looking up accounts.
func LooksLikePhone(identifier string) bool {
	return !strings.Contains(identifier, "@")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
