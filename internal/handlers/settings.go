package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/i18n"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
)

// GetSettings handles GET /api/settings. First read creates the default
// row (English, notifications on, light theme, auto-save on).
func GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	settings, err := services.GetUserSettings(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: settings})
}

// UpdateSettings handles PUT /api/settings as a merge-patch.
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	var update models.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}
	if update.Language != nil && !i18n.IsSupported(*update.Language) {
		writeError(w, apperrors.Validation("language", "unsupported language"))
		return
	}

	settings, err := services.UpdateUserSettings(userID, update)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Settings updated", Data: settings})
}
