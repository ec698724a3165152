package services

import (
	"database/sql"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/lib/pq"
)

// ListDiseases returns the reference catalog ordered by name. All text
// columns except the names are nullable, so they scan through NullString.
func ListDiseases() ([]models.Disease, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, name, name_rw, description, description_rw, symptoms, symptoms_rw,
			treatment, treatment_rw, prevention, prevention_rw, estimated_cost,
			severity_levels, created_at
		FROM diseases
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	diseases := []models.Disease{}
	for rows.Next() {
		var d models.Disease
		var description, descriptionRw, symptoms, symptomsRw sql.NullString
		var treatment, treatmentRw, prevention, preventionRw, cost sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.NameRw, &description, &descriptionRw,
			&symptoms, &symptomsRw, &treatment, &treatmentRw,
			&prevention, &preventionRw, &cost,
			pq.Array(&d.SeverityLevels), &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Description = description.String
		d.DescriptionRw = descriptionRw.String
		d.Symptoms = symptoms.String
		d.SymptomsRw = symptomsRw.String
		d.Treatment = treatment.String
		d.TreatmentRw = treatmentRw.String
		d.Prevention = prevention.String
		d.PreventionRw = preventionRw.String
		d.EstimatedCost = cost.String
		diseases = append(diseases, d)
	}
	return diseases, rows.Err()
}
