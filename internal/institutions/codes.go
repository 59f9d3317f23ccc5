package institutions

import (
	"strings"
	"unicode"
)

// Canonicalize returns the bare display form of a course code: upper case
// with every whitespace rune removed. It does not touch wire suffixes.
func Canonicalize(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ToWireForm converts a display code to the form the upstream statistics
// service expects for the given institution. Unknown institutions get the
// canonical display form unchanged; the caller can still attempt a lookup
// with it.
func ToWireForm(code, tag string) string {
	code = Canonicalize(code)
	if code == "" {
		return ""
	}

	inst, ok := Lookup(tag)
	if !ok {
		return code
	}

	switch inst.style {
	case suffixDash:
		if hasDashDigitSuffix(code) {
			return code
		}
		return code + "-1"
	case suffixDigit:
		// Digit-final display codes are left alone so the suffix can be
		// stripped unambiguously on the way back.
		if endsInDigit(code) {
			return code
		}
		return code + "1"
	default:
		return code
	}
}

// ToDisplay converts a wire-form code back to the display form. It is
// idempotent: display codes pass through unchanged, so mixed call sites can
// apply it defensively without corrupting anything.
func ToDisplay(code, tag string) string {
	code = Canonicalize(code)
	if code == "" {
		return ""
	}

	inst, ok := Lookup(tag)
	if !ok {
		// Best effort: the dash+digit suffix is unambiguous even without
		// knowing the institution's convention.
		return stripDashDigitSuffix(code)
	}

	switch inst.style {
	case suffixDash:
		return stripDashDigitSuffix(code)
	case suffixDigit:
		// Strip the trailing suffix digit only when the rune before it is
		// not a digit; ToWireForm never suffixes digit-final codes, so a
		// digit-digit tail is part of the real code.
		r := []rune(code)
		if len(r) >= 2 && r[len(r)-1] == '1' && !unicode.IsDigit(r[len(r)-2]) {
			return string(r[:len(r)-1])
		}
		return code
	default:
		return code
	}
}

func endsInDigit(code string) bool {
	r := []rune(code)
	return len(r) > 0 && unicode.IsDigit(r[len(r)-1])
}

// A dash suffix is a dash followed by exactly one digit. Longer digit runs
// after a dash are part of the real code (UiT writes codes like "MAT-1001").
func hasDashDigitSuffix(code string) bool {
	i := strings.LastIndexByte(code, '-')
	if i <= 0 || i != len(code)-2 {
		return false
	}
	r := []rune(code[i+1:])
	return len(r) == 1 && unicode.IsDigit(r[0])
}

func stripDashDigitSuffix(code string) string {
	for hasDashDigitSuffix(code) {
		code = code[:strings.LastIndexByte(code, '-')]
	}
	return code
}
