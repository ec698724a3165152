package handlers

import (
	"net/http"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
)

// AlertResponse reports the current global error banner.
type AlertResponse struct {
	Success bool   `json:"success"`
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

// GetAlert handles GET /api/alert: the single-slot banner message, if one
// is currently showing.
func GetAlert(w http.ResponseWriter, r *http.Request) {
	message, visible := services.Alert.Current()
	writeJSON(w, http.StatusOK, AlertResponse{
		Success: true,
		Visible: visible,
		Message: message,
	})
}

// ClearAlert handles DELETE /api/alert: dismisses the banner.
func ClearAlert(w http.ResponseWriter, r *http.Request) {
	services.Alert.Clear()
	writeJSON(w, http.StatusOK, AlertResponse{Success: true, Visible: false})
}
