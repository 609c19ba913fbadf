package asset

import (
	"context"
	"fmt"
)

// IdentifierValidator checks external identifiers before they are attached
// to an asset. Implementations are interface-driven so deployments can plug
// in registry lookups; the default validates format and check digits only.
type IdentifierValidator interface {
	Validate(ctx context.Context, identifiers []AssetIdentifier) error
}

// NopIdentifierValidator accepts every identifier.
type NopIdentifierValidator struct{}

func (NopIdentifierValidator) Validate(ctx context.Context, identifiers []AssetIdentifier) error {
	return nil
}

// ChecksumValidator verifies each identifier against its standard's length
// and check-digit rules. Unknown identifier types are rejected.
type ChecksumValidator struct{}

func (ChecksumValidator) Validate(ctx context.Context, identifiers []AssetIdentifier) error {
	for _, id := range identifiers {
		var ok bool
		switch id.Type {
		case IdentifierCUSIP:
			ok = validCUSIP(id.Value, false)
		case IdentifierCINS:
			ok = validCUSIP(id.Value, true)
		case IdentifierISIN:
			ok = validISIN(id.Value)
		case IdentifierLEI:
			ok = validLEI(id.Value)
		case IdentifierFIGI:
			ok = validFIGI(id.Value)
		default:
			return fmt.Errorf("%w: unknown identifier type %q", ErrInvalidIdentifier, id.Type)
		}
		if !ok {
			return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, id.Type, id.Value)
		}
	}
	return nil
}

// cusipDigit maps a CUSIP character to its numeric value, or -1 if invalid.
func cusipDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c == '*':
		return 36
	case c == '@':
		return 37
	case c == '#':
		return 38
	default:
		return -1
	}
}

// validCUSIP checks a 9-character CUSIP. CINS is the international variant
// whose first character must be a letter.
func validCUSIP(s string, cins bool) bool {
	if len(s) != 9 {
		return false
	}
	if cins && (s[0] < 'A' || s[0] > 'Z') {
		return false
	}
	sum := 0
	for i := 0; i < 8; i++ {
		v := cusipDigit(s[i])
		if v < 0 {
			return false
		}
		if i%2 == 1 {
			v *= 2
		}
		sum += v/10 + v%10
	}
	check := (10 - sum%10) % 10
	return cusipDigit(s[8]) == check
}

// validISIN checks a 12-character ISIN: two letters of country code, nine
// alphanumerics, and a Luhn check digit computed over the expanded digits.
func validISIN(s string) bool {
	if len(s) != 12 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' || s[1] < 'A' || s[1] > 'Z' {
		return false
	}

	// Expand letters to two digits each, then run Luhn right to left.
	digits := make([]int, 0, 24)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, int(c-'0'))
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			digits = append(digits, v/10, v%10)
		default:
			return false
		}
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		v := digits[i]
		if double {
			v *= 2
			if v > 9 {
				v -= 9
			}
		}
		sum += v
		double = !double
	}
	return sum%10 == 0
}

// validLEI checks a 20-character LEI using the ISO 17442 mod-97 rule.
func validLEI(s string) bool {
	if len(s) != 20 {
		return false
	}
	rem := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		default:
			return false
		}
	}
	return rem == 1
}

// validFIGI checks a 12-character FIGI: two uppercase consonants, the letter
// G, eight alphanumerics, and a Luhn-style check digit.
func validFIGI(s string) bool {
	if len(s) != 12 {
		return false
	}
	if !figiConsonant(s[0]) || !figiConsonant(s[1]) || s[2] != 'G' {
		return false
	}
	sum := 0
	for i := 0; i < 11; i++ {
		v := cusipDigit(s[i])
		if v < 0 || v > 35 {
			return false
		}
		if i%2 == 1 {
			v *= 2
		}
		sum += v/10 + v%10
	}
	check := (10 - sum%10) % 10
	return s[11] >= '0' && s[11] <= '9' && int(s[11]-'0') == check
}

func figiConsonant(c byte) bool {
	switch c {
	case 'A', 'E', 'I', 'O', 'U':
		return false
	}
	return c >= 'B' && c <= 'Z'
}
