package services

import (
	"database/sql"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/google/uuid"
)

// HistoryStats is the client-facing tally computed from a listed set of
// records. Never persisted.
type HistoryStats struct {
	Total    int `json:"total"`
	Severe   int `json:"severe"`
	Moderate int `json:"moderate"`
	Mild     int `json:"mild"`
}

// ComputeHistoryStats tallies severities over one listed set.
func ComputeHistoryStats(records []models.DiagnosisRecord) HistoryStats {
	stats := HistoryStats{Total: len(records)}
	for _, r := range records {
		switch r.Severity {
		case models.SeveritySevere:
			stats.Severe++
		case models.SeverityModerate:
			stats.Moderate++
		case models.SeverityMild:
			stats.Mild++
		}
	}
	return stats
}

// ListDiagnosisHistory returns all records for a user, newest first.
// No records is an empty slice, not an error.
func ListDiagnosisHistory(userID uuid.UUID) ([]models.DiagnosisRecord, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, user_id, image_url, disease_name, disease_name_rw, confidence,
			severity, affected_area, treatment_action, treatment_instructions,
			treatment_alternative, estimated_cost, created_at
		FROM diagnosis_history
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.DiagnosisRecord{}
	for rows.Next() {
		var r models.DiagnosisRecord
		var diseaseNameRw, instructions, alternative, cost sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.ImageURL, &r.DiseaseName, &diseaseNameRw,
			&r.Confidence, &r.Severity, &r.AffectedArea, &r.TreatmentAction,
			&instructions, &alternative, &cost, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.DiseaseNameRw = diseaseNameRw.String
		r.TreatmentInstructions = instructions.String
		r.TreatmentAlternative = alternative.String
		r.EstimatedCost = cost.String
		// Stored values predate clamping in older rows; clamp before display.
		r.Confidence = models.NormalizeConfidence(r.Confidence)
		r.AffectedArea = models.ClampAffectedArea(r.AffectedArea)
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetDiagnosisRecord fetches one record scoped to its owner.
func GetDiagnosisRecord(recordID, userID uuid.UUID) (*models.DiagnosisRecord, error) {
	var r models.DiagnosisRecord
	var diseaseNameRw, instructions, alternative, cost sql.NullString
	err := database.PostgresDB.QueryRow(`
		SELECT id, user_id, image_url, disease_name, disease_name_rw, confidence,
			severity, affected_area, treatment_action, treatment_instructions,
			treatment_alternative, estimated_cost, created_at
		FROM diagnosis_history
		WHERE id = $1 AND user_id = $2
	`, recordID, userID).Scan(&r.ID, &r.UserID, &r.ImageURL, &r.DiseaseName, &diseaseNameRw,
		&r.Confidence, &r.Severity, &r.AffectedArea, &r.TreatmentAction,
		&instructions, &alternative, &cost, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.DiseaseNameRw = diseaseNameRw.String
	r.TreatmentInstructions = instructions.String
	r.TreatmentAlternative = alternative.String
	r.EstimatedCost = cost.String
	r.Confidence = models.NormalizeConfidence(r.Confidence)
	r.AffectedArea = models.ClampAffectedArea(r.AffectedArea)
	return &r, nil
}

// SaveDiagnosisRecord inserts a record built from a prediction.
func SaveDiagnosisRecord(r *models.DiagnosisRecord) error {
	_, err := database.PostgresDB.Exec(`
		INSERT INTO diagnosis_history (
			id, user_id, image_url, disease_name, disease_name_rw, confidence,
			severity, affected_area, treatment_action, treatment_instructions,
			treatment_alternative, estimated_cost, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.ID, r.UserID, r.ImageURL, r.DiseaseName, r.DiseaseNameRw, r.Confidence,
		r.Severity, r.AffectedArea, r.TreatmentAction, r.TreatmentInstructions,
		r.TreatmentAlternative, r.EstimatedCost, r.CreatedAt)
	return err
}

// DeleteDiagnosisRecord removes one record scoped to its owner. Deleting a
// record that is already gone is success from the caller's perspective.
func DeleteDiagnosisRecord(recordID, userID uuid.UUID) error {
	_, err := database.PostgresDB.Exec(`
		DELETE FROM diagnosis_history WHERE id = $1 AND user_id = $2
	`, recordID, userID)
	return err
}
