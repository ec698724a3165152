package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/i18n"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/google/uuid"
)

// APIResponse is the standard envelope for JSON responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// extractBearerToken pulls the session token from "Authorization: Bearer <token>".
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate validates the request's session token and returns the user ID.
// Failure writes the 401 response itself and returns ok=false.
func authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, apperrors.Auth("missing session token"))
		return uuid.Nil, false
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		writeError(w, apperrors.Auth("invalid or expired session"))
		return uuid.Nil, false
	}
	return userID, true
}

// writeJSON writes a 200 envelope.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses and writes the
// failure envelope. Network and remote-API failures also raise the global
// alert banner so the error surface stays consistent with what the
// response reported.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case apperrors.IsAuth(err):
		status = http.StatusUnauthorized
		message = err.Error()
	case apperrors.IsState(err):
		status = http.StatusConflict
		message = err.Error()
	case apperrors.IsNetwork(err):
		status = http.StatusServiceUnavailable
		message = err.Error()
		services.Alert.Show(err)
	case apperrors.IsAPI(err):
		status = http.StatusBadGateway
		message = err.Error()
		services.Alert.Show(err)
	default:
		services.Alert.Show(err)
	}

	writeJSON(w, status, APIResponse{Success: false, Message: message})
}

// requestLanguage resolves the display language for a request: explicit
// ?lang= wins, then the user's cached preference, then English.
func requestLanguage(r *http.Request, userID uuid.UUID) i18n.Language {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return i18n.Parse(lang)
	}
	if userID != uuid.Nil {
		return services.CachedLanguage(userID)
	}
	return i18n.DefaultLanguage
}
