package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/config"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/diagnose"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/services"
	"github.com/google/uuid"
)

// maxImageUpload caps leaf photo size at 10MB.
const maxImageUpload = 10 << 20

var (
	cloudinaryService *services.CloudinaryService
	mlClient          *services.MLClient
	mlTimeout         time.Duration
)

// InitDiagnosis wires the upload and prediction services. Called once from
// main before routes are served.
func InitDiagnosis(cfg *config.Config) {
	mlClient = services.NewMLClient(cfg.MLAPIBaseURL, cfg.MLAPITimeout)
	mlTimeout = cfg.MLAPITimeout

	if cfg.CloudinaryName != "" {
		svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("⚠️ Cloudinary not available: %v", err)
			return
		}
		cloudinaryService = svc
		log.Println("✅ Cloudinary upload service initialized")
	} else {
		log.Println("⚠️ CLOUDINARY_CLOUD_NAME not set; leaf photos will not be stored")
	}
}

// cloudinaryStore adapts the Cloudinary service to the flow's ImageStore.
// With no Cloudinary configured the record carries an empty image URL
// rather than failing the diagnosis.
type cloudinaryStore struct{}

func (cloudinaryStore) StoreImage(ctx context.Context, image []byte) (string, error) {
	if cloudinaryService == nil {
		return "", nil
	}
	return cloudinaryService.UploadLeafImage(ctx, image)
}

// multipartPredictor adapts the ML client's multipart endpoint.
type multipartPredictor struct{}

func (multipartPredictor) Predict(ctx context.Context, filename string, image []byte) (*models.Prediction, error) {
	return mlClient.PredictDisease(ctx, filename, image)
}

// base64Predictor adapts the ML client's JSON endpoint, carrying the
// original base64 payload so it is not re-encoded.
type base64Predictor struct {
	payload string
}

func (p base64Predictor) Predict(ctx context.Context, filename string, image []byte) (*models.Prediction, error) {
	return mlClient.PredictFromBase64(ctx, p.payload)
}

// historyRecorder adapts the history store to the flow's Recorder.
type historyRecorder struct{}

func (historyRecorder) Save(r *models.DiagnosisRecord) error {
	return services.SaveDiagnosisRecord(r)
}

// stageProgress publishes pipeline stage events for one user so connected
// WebSocket clients can show real progress.
func stageProgress(userID uuid.UUID) diagnose.ProgressFunc {
	return func(stage string) {
		_ = services.PublishUserEvent(context.Background(), services.UserEvent{
			Type:   stage,
			UserID: userID.String(),
		})
	}
}

func newUserFlow(userID uuid.UUID, predictor diagnose.Predictor, autoSave bool) *diagnose.Flow {
	return diagnose.NewFlow(userID, cloudinaryStore{}, predictor, historyRecorder{},
		diagnose.WithProgress(stageProgress(userID)),
		diagnose.WithAutoSave(autoSave),
		diagnose.WithPredictTimeout(mlTimeout),
	)
}

// DiagnoseResponse carries the localized result plus the raw prediction.
type DiagnoseResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Saved      bool               `json:"saved"`
	RecordID   string             `json:"record_id,omitempty"`
	Result     *ResultView        `json:"result,omitempty"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
}

// DiagnoseImage handles POST /api/diagnose: a multipart leaf photo goes
// through upload, remote inference and (per the user's auto_save_history
// setting) persistence. A failed save still returns the prediction with
// saved=false so the result is never lost.
func DiagnoseImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeError(w, apperrors.Validation("image", "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperrors.Validation("image", "image file is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageUpload))
	if err != nil {
		writeError(w, apperrors.Validation("image", "failed to read image"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(image)
	}

	runDiagnosis(w, r, userID, header.Filename, contentType, image, nil)
}

// Base64DiagnoseRequest is the JSON ingestion payload, matching what
// camera capture on low-end devices sends.
type Base64DiagnoseRequest struct {
	Image    string `json:"image"`
	Filename string `json:"filename,omitempty"`
}

// DiagnoseBase64 handles POST /api/diagnose/base64, the alternate
// ingestion path for camera captures already held as a data URL.
func DiagnoseBase64(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	var req Base64DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}
	if req.Image == "" {
		writeError(w, apperrors.Validation("image", "image is required"))
		return
	}

	// Strip an optional data URL prefix ("data:image/jpeg;base64,...").
	payload := req.Image
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		writeError(w, apperrors.Validation("image", "invalid base64 image"))
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "capture.jpg"
	}

	runDiagnosis(w, r, userID, filename, http.DetectContentType(image), image,
		base64Predictor{payload: payload})
}

// runDiagnosis drives the submission flow for both ingestion paths.
func runDiagnosis(w http.ResponseWriter, r *http.Request, userID uuid.UUID,
	filename, contentType string, image []byte, predictor diagnose.Predictor) {

	settings, err := services.GetUserSettings(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if predictor == nil {
		predictor = multipartPredictor{}
	}

	flow := newUserFlow(userID, predictor, settings.AutoSaveHistory)
	if err := flow.SelectImage(filename, contentType, image); err != nil {
		writeError(w, err)
		return
	}

	result, err := flow.Submit(r.Context())
	if err != nil && result == nil {
		_ = services.PublishUserEvent(r.Context(), services.UserEvent{
			Type:    services.EventFailed,
			UserID:  userID.String(),
			Message: err.Error(),
		})
		writeError(w, err)
		return
	}

	services.ArchivePredictionAsync(userID.String(), result.ImageURL, result.Prediction)

	lang := requestLanguage(r, userID)
	view := renderPredictionView(lang, result.ImageURL, result.Prediction)
	if result.Saved {
		view.ID = result.Record.ID.String()
	}

	resp := DiagnoseResponse{
		Success:    true,
		Saved:      result.Saved,
		Result:     &view,
		Prediction: result.Prediction,
	}
	if result.Saved {
		resp.RecordID = result.Record.ID.String()
	}
	if err != nil {
		// Prediction succeeded but the save did not; surface it without
		// discarding the result.
		resp.Message = "Diagnosis complete but saving to history failed. You can save it again from the result."
		services.Alert.Show(err)
	}

	writeJSON(w, http.StatusOK, resp)
}

// SaveDiagnosis handles POST /api/history: re-persists a prediction whose
// automatic save failed (or was skipped), without re-running inference.
func SaveDiagnosis(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r)
	if !ok {
		return
	}

	var req struct {
		ImageURL   string             `json:"image_url"`
		Prediction *models.Prediction `json:"prediction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("", "invalid request body"))
		return
	}
	if req.Prediction == nil || req.Prediction.Disease == "" {
		writeError(w, apperrors.Validation("prediction", "prediction is required"))
		return
	}

	req.Prediction.Normalize()
	record, err := models.NewDiagnosisRecord(userID, req.ImageURL, req.Prediction)
	if err != nil {
		writeError(w, apperrors.Validation("prediction", err.Error()))
		return
	}

	if err := services.SaveDiagnosisRecord(record); err != nil {
		writeError(w, apperrors.WrapTransport(err))
		return
	}

	_ = services.PublishUserEvent(r.Context(), services.UserEvent{
		Type:     services.EventSaved,
		UserID:   userID.String(),
		RecordID: record.ID.String(),
	})

	writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Message: "Diagnosis saved",
		Data:    record,
	})
}
