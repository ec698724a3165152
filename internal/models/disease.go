package models

import (
	"time"

	"github.com/google/uuid"
)

// Disease is a reference catalog entry for one condition the classifier can
// detect, bilingual throughout.
type Disease struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NameRw         string    `json:"name_rw"`
	Description    string    `json:"description"`
	DescriptionRw  string    `json:"description_rw"`
	Symptoms       string    `json:"symptoms"`
	SymptomsRw     string    `json:"symptoms_rw"`
	Treatment      string    `json:"treatment"`
	TreatmentRw    string    `json:"treatment_rw"`
	Prevention     string    `json:"prevention"`
	PreventionRw   string    `json:"prevention_rw"`
	EstimatedCost  string    `json:"estimated_cost"`
	SeverityLevels []string  `json:"severity_levels"`
	CreatedAt      time.Time `json:"created_at"`
}
