package domain

import (
	dErrors "covenant/pkg/domain-errors"
)

// MaxTickerBytes is the fixed width of a ticker symbol. Registries may
// enforce a smaller configured maximum on top of this hard cap.
const MaxTickerBytes = 12

// Ticker is an asset symbol, conventionally uppercase. The canonical form
// carries no NUL padding; wire representations may pad to MaxTickerBytes.
type Ticker string

// ParseTicker validates and canonicalizes a raw symbol: non-empty, at most
// MaxTickerBytes bytes, printable ASCII with any NUL-padded tail stripped.
func ParseTicker(s string) (Ticker, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "ticker cannot be empty")
	}
	if len(s) > MaxTickerBytes {
		return "", dErrors.Newf(dErrors.CodeValidation, "ticker exceeds %d bytes", MaxTickerBytes)
	}
	t := Ticker(s)
	if !t.IsPrintableASCII() {
		return "", dErrors.New(dErrors.CodeValidation, "ticker must be printable ascii")
	}
	return t.canonical(), nil
}

// IsPrintableASCII reports whether the symbol is printable ASCII (bytes
// 32..126). Once a byte falls outside that range, every remaining byte must
// be NUL: padded tails are legal, embedded garbage is not.
func (t Ticker) IsPrintableASCII() bool {
	tail := false
	for i := 0; i < len(t); i++ {
		b := t[i]
		if tail {
			if b != 0 {
				return false
			}
			continue
		}
		if b < 32 || b > 126 {
			if b != 0 {
				return false
			}
			tail = true
		}
	}
	return true
}

// canonical strips the NUL-padded tail.
func (t Ticker) canonical() Ticker {
	for i := 0; i < len(t); i++ {
		if t[i] == 0 {
			return t[:i]
		}
	}
	return t
}

func (t Ticker) String() string { return string(t.canonical()) }

// Len is the symbol length excluding NUL padding.
func (t Ticker) Len() int { return len(t.canonical()) }
