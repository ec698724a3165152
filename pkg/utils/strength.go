package utils

import "unicode"

// MinPasswordFactors is the rubric score below which signup is blocked.
const MinPasswordFactors = 2

// PasswordStrength scores a password against the five-factor rubric:
// length >= 6, length >= 8, mixed case, digit present, symbol present.
// The score is the number of factors satisfied (0-5).
func PasswordStrength(password string) int {
	strength := 0
	if len(password) >= 6 {
		strength++
	}
	if len(password) >= 8 {
		strength++
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if hasLower && hasUpper {
		strength++
	}
	if hasDigit {
		strength++
	}
	if hasSymbol {
		strength++
	}
	return strength
}

// IsPasswordAcceptable reports whether a password satisfies at least
// MinPasswordFactors of the rubric.
func IsPasswordAcceptable(password string) bool {
	return PasswordStrength(password) >= MinPasswordFactors
}
