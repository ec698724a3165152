package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Severity is the coarse disease-progression bucket.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// ParseSeverity validates a severity value coming off the wire.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return Severity(s), nil
	}
	return "", fmt.Errorf("invalid severity %q", s)
}

// NormalizeConfidence converts either source shape (0-1 fraction or 0-100
// percent) into the canonical 0-1 fraction and clamps it. Values above 1
// are treated as percentages.
func NormalizeConfidence(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatConfidence renders a canonical 0-1 confidence as a whole percent,
// e.g. 0.87 -> "87%".
func FormatConfidence(fraction float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(NormalizeConfidence(fraction)*100)))
}

// ClampAffectedArea forces a leaf-area percentage into [0,100].
func ClampAffectedArea(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DiagnosisRecord is one persisted leaf-image analysis. Immutable after
// creation except for deletion.
type DiagnosisRecord struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	ImageURL              string    `json:"image_url"`
	DiseaseName           string    `json:"disease_name"`
	DiseaseNameRw         string    `json:"disease_name_rw,omitempty"`
	Confidence            float64   `json:"confidence"` // canonical 0-1 fraction
	Severity              Severity  `json:"severity"`
	AffectedArea          float64   `json:"affected_area"` // percent, 0-100
	TreatmentAction       string    `json:"treatment_action"`
	TreatmentInstructions string    `json:"treatment_instructions,omitempty"`
	TreatmentAlternative  string    `json:"treatment_alternative,omitempty"`
	EstimatedCost         string    `json:"estimated_cost,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// NewDiagnosisRecord builds a record from a prediction, enforcing the
// severity enum and clamping confidence and affected area.
func NewDiagnosisRecord(userID uuid.UUID, imageURL string, p *Prediction) (*DiagnosisRecord, error) {
	severity, err := ParseSeverity(string(p.Severity))
	if err != nil {
		return nil, err
	}
	return &DiagnosisRecord{
		ID:                    uuid.New(),
		UserID:                userID,
		ImageURL:              imageURL,
		DiseaseName:           p.Disease,
		DiseaseNameRw:         p.DiseaseRw,
		Confidence:            NormalizeConfidence(p.Confidence),
		Severity:              severity,
		AffectedArea:          ClampAffectedArea(p.AffectedArea),
		TreatmentAction:       p.Treatment.Action,
		TreatmentInstructions: p.Treatment.Instructions,
		TreatmentAlternative:  p.Treatment.Alternative,
		EstimatedCost:         p.Treatment.Cost,
		CreatedAt:             time.Now().UTC(),
	}, nil
}
