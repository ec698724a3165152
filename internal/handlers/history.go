package handlers

import (
	"database/sql"
	"net/http"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/google/uuid"
)

// HistoryResponse carries the record list plus the severity tally the
// history page shows above it.
type HistoryResponse struct {
	Success bool                  `json:"success"`
	Records interface{}           `json:"records"`
	Stats   services.HistoryStats `json:"stats"`
}

// GetHistory handles GET /api/history: the user's diagnoses newest first,
// with computed stats. No history is an empty list, never an error.
func GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	records, err := services.ListDiagnosisHistory(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Success: true,
		Records: records,
		Stats:   services.ComputeHistoryStats(records),
	})
}

// GetHistoryRecord handles GET /api/history/record?id=<uuid>: one record
// rendered for display in the requested language.
func GetHistoryRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	recordID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, apperrors.Validation("id", "a valid record id is required"))
		return
	}

	record, err := services.GetDiagnosisRecord(recordID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, APIResponse{Success: false, Message: "Record not found"})
			return
		}
		writeError(w, err)
		return
	}

	lang := requestLanguage(r, userID)
	view := renderRecordView(lang, record)

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: view})
}

// DeleteHistoryRecord handles DELETE /api/history?id=<uuid>. Deleting a
// record that is already gone still reports success; the caller's goal
// state is reached either way.
func DeleteHistoryRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	recordID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, apperrors.Validation("id", "a valid record id is required"))
		return
	}

	if err := services.DeleteDiagnosisRecord(recordID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Record deleted"})
}
