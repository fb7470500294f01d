package payment

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrOrderNotOpen = errors.New("order not open")
	ErrInitiation   = errors.New("payment initiation failed")
)

const countryCode = "254"

// NormalizePhone converts an operator-entered phone string to the canonical
// mobile-subscriber form: digits only, 254 prefix, exactly 12 digits.
// Separators and a leading + are removed, a trunk 0 becomes 254, and a bare
// subscriber number gets the country code prepended. Anything that does not
// end up as 12 digits is rejected rather than coerced.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case ' ', '\t', '-', '(', ')':
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.TrimPrefix(b.String(), "+")

	switch {
	case strings.HasPrefix(cleaned, "0"):
		cleaned = countryCode + cleaned[1:]
	case !strings.HasPrefix(cleaned, countryCode):
		cleaned = countryCode + cleaned
	}

	if len(cleaned) != 12 {
		return "", ErrInvalidPhone
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}
	return cleaned, nil
}
