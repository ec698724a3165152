package routes

import (
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Auth and session routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Put("/api/auth/profile", handlers.UpdateProfile)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// Diagnosis submission (multipart photo + base64 camera capture)
	r.Post("/api/diagnose", handlers.DiagnoseImage)
	r.Post("/api/diagnose/base64", handlers.DiagnoseBase64)

	// Diagnosis history
	r.Get("/api/history", handlers.GetHistory)
	r.Post("/api/history", handlers.SaveDiagnosis)
	r.Delete("/api/history", handlers.DeleteHistoryRecord)
	r.Get("/api/history/record", handlers.GetHistoryRecord)

	// Per-user settings
	r.Get("/api/settings", handlers.GetSettings)
	r.Put("/api/settings", handlers.UpdateSettings)

	// Reference disease catalog
	r.Get("/api/diseases", handlers.GetDiseases)

	// Global error banner
	r.Get("/api/alert", handlers.GetAlert)
	r.Delete("/api/alert", handlers.ClearAlert)

	// WebSocket endpoint for session and diagnosis progress events
	r.Get("/ws/events", handlers.EventsWebSocket)
}
