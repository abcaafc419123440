// Package gtin canonicalizes GS1 trade item identifiers (GTIN-8/12/13/14)
// so that internal and supplier representations compare equal regardless
// of padding, separators, or omitted leading zeros.
//
// Two normalization policies exist on purpose and must not be conflated:
// Normalize validates check digits and is used for data cleanup and
// display; IndexKey only zero-pads and is used for catalog match index
// keys, where legacy rows frequently carry non-validating codes.
package gtin

import (
	"fmt"
	"strings"

	"github.com/matlens/backend/internal/domain"
)

// canonicalLengths are the valid GTIN lengths, ascending.
var canonicalLengths = [...]int{8, 12, 13, 14}

// keyLength is the canonical width used for equivalence comparison and
// permissive index keys.
const keyLength = 14

// Normalize strips separators from raw and returns the shortest valid
// GTIN reachable by left-zero-padding, or "" when the input is empty,
// contains no digits, is the placeholder "0", or no padded candidate
// has a valid check digit.
//
// A digit string that already has a canonical length is accepted as-is
// when its check digit validates; otherwise longer padded targets are
// still tried, which recovers 12- and 13-digit codes stored with their
// leading zero dropped.
func Normalize(raw string) string {
	digits := stripNonDigits(raw)
	if digits == "" || digits == "0" || len(digits) > keyLength {
		return ""
	}

	for _, target := range canonicalLengths {
		if target < len(digits) {
			continue
		}
		candidate := padLeft(digits, target)
		if ValidCheckDigit(candidate) {
			return candidate
		}
	}
	return ""
}

// IndexKey returns the permissive 14-digit form of raw: separators
// stripped, left-zero-padded, no check digit validation. Returns "" for
// empty, placeholder or over-long input. Only for match index keys;
// never use it to clean data for display.
func IndexKey(raw string) string {
	digits := stripNonDigits(raw)
	if digits == "" || digits == "0" || len(digits) > keyLength {
		return ""
	}
	return padLeft(digits, keyLength)
}

// CheckDigit computes the GS1 check digit for a code body (the digits
// preceding the check digit). Moving right to left, digits alternate
// between weight 3 and weight 1, starting with 3.
func CheckDigit(body string) (int, error) {
	if body == "" {
		return 0, fmt.Errorf("%w: empty code body", domain.ErrInvalidInput)
	}
	sum := 0
	weight := 3
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: non-digit character %q in code body", domain.ErrInvalidInput, c)
		}
		sum += int(c-'0') * weight
		weight = 4 - weight
	}
	return (10 - sum%10) % 10, nil
}

// ValidCheckDigit reports whether code is a well-formed GTIN whose last
// digit matches the GS1 check digit of the preceding digits.
func ValidCheckDigit(code string) bool {
	if !isCanonicalLength(len(code)) {
		return false
	}
	check, err := CheckDigit(code[:len(code)-1])
	if err != nil {
		return false
	}
	last := code[len(code)-1]
	if last < '0' || last > '9' {
		return false
	}
	return int(last-'0') == check
}

// Equivalent reports whether a and b denote the same trade item: both
// must strictly normalize, and their canonical 14-digit forms must be
// equal. Left-zero-padding never changes the check digit alignment, so
// padding both to 14 digits is a safe comparison form.
func Equivalent(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return padLeft(na, keyLength) == padLeft(nb, keyLength)
}

func isCanonicalLength(n int) bool {
	for _, l := range canonicalLengths {
		if n == l {
			return true
		}
	}
	return false
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func padLeft(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
