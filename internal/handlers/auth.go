package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/i18n"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/coffeeguard-rw/coffeeguard-backend/pkg/utils"
	"github.com/google/uuid"
)

// SignupRequest is the registration payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Language string `json:"language,omitempty"`
}

// SigninRequest is the login payload.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest asks for a reset token by email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResponse is the envelope for auth endpoints.
type AuthResponse struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	User     map[string]interface{} `json:"user,omitempty"`
	Settings interface{}            `json:"settings,omitempty"`
	Token    string                 `json:"token,omitempty"`
}

const resetTokenDuration = time.Hour

func profileMap(p *models.Profile) map[string]interface{} {
	return map[string]interface{}{
		"id":         p.ID.String(),
		"email":      p.Email,
		"full_name":  p.FullName,
		"avatar_url": p.AvatarURL,
		"language":   p.Language,
		"created_at": p.CreatedAt,
	}
}

// Signup handles account registration. Password acceptance uses the
// five-factor rubric: at least two of length>=6, length>=8, mixed case,
// a digit, a symbol.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, apperrors.Validation("", "email, password, and full name are required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, apperrors.Validation("email", "invalid email address"))
		return
	}
	if !utils.IsPasswordAcceptable(req.Password) {
		writeError(w, apperrors.Validation("password", "password is too weak: use a longer password or mix in cases, digits or symbols"))
		return
	}

	language := "en"
	if i18n.IsSupported(req.Language) {
		language = req.Language
	}

	// Check if the email is already registered
	var existingEmail string
	err := database.PostgresDB.QueryRow(
		"SELECT email FROM profiles WHERE LOWER(email) = $1", req.Email,
	).Scan(&existingEmail)
	if err == nil {
		writeJSON(w, http.StatusConflict, AuthResponse{
			Success: false,
			Message: "An account with this email already exists",
		})
		return
	} else if err != sql.ErrNoRows {
		writeError(w, err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := database.PostgresDB.Begin()
	if err != nil {
		writeError(w, err)
		return
	}
	defer tx.Rollback()

	userID := uuid.New()
	now := time.Now().UTC()

	_, err = tx.Exec(`
		INSERT INTO profiles (id, email, full_name, language, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, userID, req.Email, req.FullName, language, hashedPassword, now)
	if err != nil {
		writeError(w, err)
		return
	}

	// Settings row is created alongside the profile so first read never races.
	settings := models.DefaultSettings(userID)
	settings.Language = language
	_, err = tx.Exec(`
		INSERT INTO user_settings (id, user_id, language, notifications_enabled,
			theme_preference, auto_save_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, settings.ID, settings.UserID, settings.Language, settings.NotificationsEnabled,
		settings.ThemePreference, settings.AutoSaveHistory, settings.CreatedAt, settings.UpdatedAt)
	if err != nil {
		writeError(w, err)
		return
	}

	if err = tx.Commit(); err != nil {
		writeError(w, err)
		return
	}

	services.CacheLanguagePreference(userID, language)

	// No session yet: the client signs in with the new credentials next.
	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully. Please sign in.",
		User: map[string]interface{}{
			"id":         userID.String(),
			"email":      req.Email,
			"full_name":  req.FullName,
			"language":   language,
			"created_at": now,
		},
	})
}

// Signin handles login and opens a fresh 7-day session.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, apperrors.Validation("", "email and password are required"))
		return
	}

	profile, err := services.GetProfileByEmail(req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeError(w, apperrors.Auth("invalid email or password"))
		return
	}

	valid, err := utils.VerifyPassword(req.Password, profile.PasswordHash)
	if err != nil || !valid {
		writeError(w, apperrors.Auth("invalid email or password"))
		return
	}

	token, err := services.CreateSession(profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Settings ride along so the client starts with the right language and
	// preferences; the row is created with defaults on first read.
	settings, err := services.GetUserSettings(profile.ID)
	if err != nil {
		log.Printf("signin: failed to load settings: %v", err)
		settings = nil
	}
	if settings != nil {
		services.CacheLanguagePreference(profile.ID, settings.Language)
	} else {
		services.CacheLanguagePreference(profile.ID, profile.Language)
	}

	_ = services.PublishUserEvent(r.Context(), services.UserEvent{
		Type:   services.EventSignedIn,
		UserID: profile.ID.String(),
	})

	resp := AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    profileMap(profile),
		Token:   token,
	}
	if settings != nil {
		resp.Settings = settings
	}
	writeJSON(w, http.StatusOK, resp)
}

// Signout ends the session. Local state is always cleared: even when the
// token is already gone from Redis the response is success, so a client
// can never get stuck half signed in.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))

	if token != "" {
		if userID, ok, _ := services.ValidateSession(token); ok {
			_ = services.PublishUserEvent(r.Context(), services.UserEvent{
				Type:   services.EventSignedOut,
				UserID: userID.String(),
			})
		}
		if err := services.InvalidateSession(token); err != nil {
			log.Printf("signout: failed to invalidate session: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Signed out"})
}

// GetMe returns the authenticated user's profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	profile, err := services.GetProfile(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeError(w, apperrors.Auth("account no longer exists"))
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User:    profileMap(profile),
	})
}

// UpdateProfile merge-patches the authenticated user's profile.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}
	if update.Language != nil && !i18n.IsSupported(*update.Language) {
		writeError(w, apperrors.Validation("language", "unsupported language"))
		return
	}

	profile, err := services.UpdateProfile(userID, update)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, apperrors.State("no profile to update"))
			return
		}
		writeError(w, err)
		return
	}

	if update.Language != nil {
		services.CacheLanguagePreference(userID, profile.Language)
	}

	_ = services.PublishUserEvent(r.Context(), services.UserEvent{
		Type:   services.EventProfileUpdated,
		UserID: userID.String(),
	})

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Profile updated",
		User:    profileMap(profile),
	})
}

// ForgotPassword issues a reset token. The response never reveals whether
// the email is registered.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}
	if req.Email == "" {
		writeError(w, apperrors.Validation("email", "email is required"))
		return
	}

	profile, err := services.GetProfileByEmail(req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	if profile != nil {
		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err != nil {
			writeError(w, err)
			return
		}
		resetToken := base64.URLEncoding.EncodeToString(tokenBytes)

		_, err = database.PostgresDB.Exec(`
			INSERT INTO password_reset_tokens (id, user_id, token, expires_at, created_at)
			VALUES (gen_random_uuid(), $1, $2, $3, NOW())
		`, profile.ID, resetToken, time.Now().UTC().Add(resetTokenDuration))
		if err != nil {
			writeError(w, err)
			return
		}

		// TODO: deliver the token by email once an SMTP provider is wired up.
		// Until then it lands in the server log for manual support flows.
		log.Printf("password reset token issued for user %s", profile.ID)
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "If an account exists with this email, you will receive a password reset link.",
	})
}

// ResetPassword completes a reset: validates the token, updates the hash
// and invalidates every open session for the account.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		writeError(w, apperrors.Validation("", "token and new password are required"))
		return
	}
	if !utils.IsPasswordAcceptable(req.NewPassword) {
		writeError(w, apperrors.Validation("new_password", "password is too weak: use a longer password or mix in cases, digits or symbols"))
		return
	}

	var userID uuid.UUID
	var expiresAt time.Time
	var used bool
	err := database.PostgresDB.QueryRow(`
		SELECT user_id, expires_at, used FROM password_reset_tokens WHERE token = $1
	`, req.Token).Scan(&userID, &expiresAt, &used)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, apperrors.Auth("invalid or expired reset token"))
			return
		}
		writeError(w, err)
		return
	}
	if used || time.Now().After(expiresAt) {
		writeError(w, apperrors.Auth("invalid or expired reset token"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := database.PostgresDB.Begin()
	if err != nil {
		writeError(w, err)
		return
	}
	defer tx.Rollback()

	if _, err = tx.Exec(`UPDATE profiles SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, hashedPassword); err != nil {
		writeError(w, err)
		return
	}
	if _, err = tx.Exec(`UPDATE password_reset_tokens SET used = TRUE WHERE token = $1`,
		req.Token); err != nil {
		writeError(w, err)
		return
	}
	if err = tx.Commit(); err != nil {
		writeError(w, err)
		return
	}

	// Old sessions die with the old password.
	services.InvalidateUserSessions(userID)

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Password has been reset. Please sign in again."})
}
