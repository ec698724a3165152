package handlers

import "testing"

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer  abc123 ", "abc123"},
		{"Basic abc123", ""},
		{"abc123", ""},
		{"", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		if got := extractBearerToken(tt.header); got != tt.want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
