package i18n

import "testing"

func TestTranslate(t *testing.T) {
	cases := []struct {
		lang Language
		key  string
		want string
	}{
		{English, "severity", "Severity Level"},
		{Kinyarwanda, "severity", "Urwego rw'Indwara"},
		{English, "severe", "Severe"},
		{Kinyarwanda, "severe", "Ikabije"},
		{Kinyarwanda, "historyEmpty", "Nta suzuma rihari. Ohereza ifoto y'ikibabi kugira ngo utangire."},
	}

	for _, tc := range cases {
		if got := Translate(tc.lang, tc.key); got != tc.want {
			t.Errorf("Translate(%s, %s) = %q, want %q", tc.lang, tc.key, got, tc.want)
		}
	}
}

func TestTranslateFallsBackToKey(t *testing.T) {
	if got := Translate(English, "noSuchKey"); got != "noSuchKey" {
		t.Errorf("missing key must fall back to itself, got %q", got)
	}
	if got := Translate(Kinyarwanda, "noSuchKey"); got != "noSuchKey" {
		t.Errorf("missing key must fall back to itself, got %q", got)
	}
}

func TestTranslateUnknownLanguageUsesEnglish(t *testing.T) {
	if got := Translate(Language("fr"), "home"); got != "Home" {
		t.Errorf("unknown language must use the English table, got %q", got)
	}
}

func TestParse(t *testing.T) {
	if Parse("rw") != Kinyarwanda {
		t.Error("rw must parse to Kinyarwanda")
	}
	if Parse("en") != English || Parse("") != English || Parse("xx") != English {
		t.Error("everything else must default to English")
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("en") || !IsSupported("rw") {
		t.Error("en and rw are supported")
	}
	if IsSupported("fr") || IsSupported("") {
		t.Error("other codes are not supported")
	}
}

func TestConfidenceAdvisoryKey(t *testing.T) {
	cases := []struct {
		confidence float64
		want       string
	}{
		{0.95, "confidenceHigh"},
		{0.8, "confidenceHigh"},
		{0.79, "confidenceMedium"},
		{0.6, "confidenceMedium"},
		{0.42, "confidenceLow"},
		{0, "confidenceLow"},
	}
	for _, tc := range cases {
		if got := ConfidenceAdvisoryKey(tc.confidence); got != tc.want {
			t.Errorf("ConfidenceAdvisoryKey(%v) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}
