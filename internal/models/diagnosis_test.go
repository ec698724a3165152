package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalizeConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.87, 0.87},   // already a fraction
		{87, 0.87},     // percent shape
		{0.42, 0.42},
		{42, 0.42},
		{1, 1},         // boundary: 1 is a valid fraction, not 1%
		{100, 1},
		{150, 1},       // clamp above
		{-0.3, 0},      // clamp below
		{0, 0},
	}
	for _, tc := range cases {
		if got := NormalizeConfidence(tc.in); got != tc.want {
			t.Errorf("NormalizeConfidence(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.87, "87%"},
		{0.42, "42%"},
		{0.875, "88%"},
		{1, "100%"},
		{0, "0%"},
		{87, "87%"}, // percent shape still renders correctly
	}
	for _, tc := range cases {
		if got := FormatConfidence(tc.in); got != tc.want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	for _, valid := range []string{"mild", "moderate", "severe"} {
		if _, err := ParseSeverity(valid); err != nil {
			t.Errorf("ParseSeverity(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "critical", "Mild", "SEVERE"} {
		if _, err := ParseSeverity(invalid); err == nil {
			t.Errorf("ParseSeverity(%q) must fail", invalid)
		}
	}
}

func TestClampAffectedArea(t *testing.T) {
	if got := ClampAffectedArea(-5); got != 0 {
		t.Errorf("ClampAffectedArea(-5) = %v", got)
	}
	if got := ClampAffectedArea(35); got != 35 {
		t.Errorf("ClampAffectedArea(35) = %v", got)
	}
	if got := ClampAffectedArea(130); got != 100 {
		t.Errorf("ClampAffectedArea(130) = %v", got)
	}
}

func TestNewDiagnosisRecord(t *testing.T) {
	userID := uuid.New()
	p := &Prediction{
		Disease:      "Coffee Leaf Rust (Hemileia vastatrix)",
		DiseaseRw:    "Imvura y'Ikibabi cy'Ikawa",
		Confidence:   42, // percent shape on purpose
		Severity:     SeveritySevere,
		AffectedArea: 60,
		Treatment: Treatment{
			Action: "Apply fungicide spray immediately",
			Cost:   "$15-30",
		},
	}

	rec, err := NewDiagnosisRecord(userID, "https://img.example/leaf.jpg", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Severity != SeveritySevere {
		t.Errorf("severity = %s", rec.Severity)
	}
	if rec.Confidence != 0.42 {
		t.Errorf("confidence = %v, want canonical 0.42", rec.Confidence)
	}
	if FormatConfidence(rec.Confidence) != "42%" {
		t.Errorf("display = %s, want 42%%", FormatConfidence(rec.Confidence))
	}
	if rec.UserID != userID {
		t.Error("record must carry the owning user id")
	}
	if rec.ID == uuid.Nil {
		t.Error("record must get an id")
	}
}

func TestNewDiagnosisRecordRejectsBadSeverity(t *testing.T) {
	p := &Prediction{Disease: "Rust", Severity: "catastrophic"}
	if _, err := NewDiagnosisRecord(uuid.New(), "", p); err == nil {
		t.Fatal("invalid severity must be rejected at construction")
	}
}

func TestPredictionNormalize(t *testing.T) {
	p := &Prediction{
		Confidence:   87,
		AffectedArea: 130,
		AllPredictions: map[string]float64{
			"Rust":    87,
			"Healthy": 0.06,
		},
	}
	p.Normalize()
	if p.Confidence != 0.87 {
		t.Errorf("confidence = %v", p.Confidence)
	}
	if p.AffectedArea != 100 {
		t.Errorf("affected area = %v", p.AffectedArea)
	}
	if p.AllPredictions["Rust"] != 0.87 || p.AllPredictions["Healthy"] != 0.06 {
		t.Errorf("allPredictions not normalized: %v", p.AllPredictions)
	}
}
