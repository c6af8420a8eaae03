// Package cardform normalizes raw card-input keystrokes into the display
// strings the checkout form stores. Every function is pure and idempotent:
// re-formatting already-formatted text yields the same text.
package cardform

import "strings"

const (
	maxPANDigits    = 16
	maxExpiryDigits = 4
	maxCVVDigits    = 3
)

// CardNumber strips whitespace from raw input and regroups the digits in
// blocks of four for display ("4111111111111111" -> "4111 1111 1111 1111").
// The edit is rejected (ok = false) when the cleaned value contains a
// non-digit or exceeds 16 digits; callers keep the previous value then.
func CardNumber(raw string) (string, bool) {
	cleaned := strings.Join(strings.Fields(raw), "")
	if len(cleaned) > maxPANDigits || !allDigits(cleaned) {
		return "", false
	}

	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// Expiry keeps at most four digits of raw input and inserts a slash after
// the second one, shaping the field as MM/YY. One digit stays bare.
func Expiry(raw string) string {
	digits := keepDigits(raw, maxExpiryDigits)
	if len(digits) < 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// CVV keeps at most three digits of raw input.
func CVV(raw string) string {
	return keepDigits(raw, maxCVVDigits)
}

// StripPAN removes the display separators from a formatted card number,
// yielding the digits-only value sent on the wire.
func StripPAN(formatted string) string {
	return strings.ReplaceAll(formatted, " ", "")
}

// SplitExpiry splits an MM/YY-shaped field into its month and year parts.
// Input without a slash comes back as (input, "").
func SplitExpiry(field string) (month, year string) {
	month, year, _ = strings.Cut(field, "/")
	return month, year
}

// PANSuffix returns the last four digits of a formatted card number,
// the only part of the PAN that may outlive a submission.
func PANSuffix(formatted string) string {
	digits := StripPAN(formatted)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func keepDigits(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == max {
			break
		}
	}
	return b.String()
}
