package utils

import "testing"

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		want     int
	}{
		{"", 0},
		{"abc", 0},
		{"abc12", 1},          // digit only
		{"abc123", 2},         // length>=6 + digit
		{"abcdefgh", 2},       // length>=6 + length>=8
		{"Abcdefg1", 4},       // len6 + len8 + mixed case + digit
		{"Abcdef1!", 5},       // all five factors
		{"A1!", 2},            // digit + symbol; upper alone is not mixed case
		{"aB3$xYz9", 5},
	}
	for _, tc := range cases {
		if got := PasswordStrength(tc.password); got != tc.want {
			t.Errorf("PasswordStrength(%q) = %d, want %d", tc.password, got, tc.want)
		}
	}
}

func TestIsPasswordAcceptable(t *testing.T) {
	// "abc123" scores exactly 2 factors (length>=6, digit) and must pass.
	if !IsPasswordAcceptable("abc123") {
		t.Error(`"abc123" satisfies 2 factors and must be accepted`)
	}
	// One factor short of the minimum must block submission.
	if IsPasswordAcceptable("abc12") {
		t.Error(`"abc12" satisfies 1 factor and must be blocked`)
	}
	if IsPasswordAcceptable("") {
		t.Error("empty password must be blocked")
	}
}
