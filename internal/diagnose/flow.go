// Package diagnose drives one leaf-image submission through its states:
//
//	Idle → ImageSelected → Uploading → Predicted → Saved
//
// with two recoverable side states: Failed (prediction or transport error,
// image retained for retry) and PredictedUnsaved (inference succeeded but
// persistence failed; RetrySave re-persists without re-running inference).
package diagnose

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/google/uuid"
)

// State names one point in the submission lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateImageSelected    State = "image_selected"
	StateUploading        State = "uploading"
	StatePredicted        State = "predicted"
	StatePredictedUnsaved State = "predicted_unsaved"
	StateSaved            State = "saved"
	StateFailed           State = "failed"
)

// Pipeline stages reported while a submission is in flight. These are real
// transitions, not a simulated percentage; consumers must not infer
// transfer progress beyond the named stage.
const (
	StageImageStored = "image_stored"
	StagePredicting  = "predicting"
	StageSaving      = "saving"
	StageSaved       = "saved"
)

// ImageStore persists the raw photo and returns its hosted URL.
type ImageStore interface {
	StoreImage(ctx context.Context, image []byte) (string, error)
}

// Predictor runs remote inference over the raw photo.
type Predictor interface {
	Predict(ctx context.Context, filename string, image []byte) (*models.Prediction, error)
}

// Recorder persists the finished diagnosis record.
type Recorder interface {
	Save(record *models.DiagnosisRecord) error
}

// ProgressFunc receives pipeline stage notifications.
type ProgressFunc func(stage string)

// Result is what a submission hands back: the prediction, the record built
// from it, and whether the record actually made it to storage.
type Result struct {
	Prediction *models.Prediction      `json:"prediction"`
	Record     *models.DiagnosisRecord `json:"record"`
	ImageURL   string                  `json:"image_url"`
	Saved      bool                    `json:"saved"`
}

// Flow is the state machine over one in-flight submission. All writes are
// serialized through its mutex; Submit is single-flight so rapid repeat
// triggers cannot issue duplicate network calls.
type Flow struct {
	mu       sync.Mutex
	state    State
	inFlight bool

	userID   uuid.UUID
	filename string
	image    []byte

	imageURL   string
	prediction *models.Prediction
	record     *models.DiagnosisRecord

	store     ImageStore
	predictor Predictor
	recorder  Recorder
	progress  ProgressFunc

	autoSave       bool
	predictTimeout time.Duration
}

// Option configures a Flow.
type Option func(*Flow)

// WithProgress wires a stage notification callback.
func WithProgress(fn ProgressFunc) Option {
	return func(f *Flow) { f.progress = fn }
}

// WithAutoSave controls whether a successful prediction is persisted
// (the user's auto_save_history setting). Defaults to true.
func WithAutoSave(on bool) Option {
	return func(f *Flow) { f.autoSave = on }
}

// WithPredictTimeout bounds the inference call. Defaults to 30s.
func WithPredictTimeout(d time.Duration) Option {
	return func(f *Flow) { f.predictTimeout = d }
}

// NewFlow builds an idle flow for one user.
func NewFlow(userID uuid.UUID, store ImageStore, predictor Predictor, recorder Recorder, opts ...Option) *Flow {
	f := &Flow{
		state:          StateIdle,
		userID:         userID,
		store:          store,
		predictor:      predictor,
		recorder:       recorder,
		autoSave:       true,
		predictTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state snapshot.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SelectImage accepts an image for submission. Only image media types are
// accepted; anything else is rejected with a ValidationError and the state
// is left untouched. Valid from Idle, Failed (retry with a new photo) and
// ImageSelected (replace).
func (f *Flow) SelectImage(filename, contentType string, image []byte) error {
	if !strings.HasPrefix(contentType, "image/") {
		return apperrors.Validation("image", "only image files are accepted")
	}
	if len(image) == 0 {
		return apperrors.Validation("image", "image is empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateIdle, StateFailed, StateImageSelected:
	default:
		return apperrors.State("cannot select an image while a submission is in progress")
	}

	f.filename = filename
	f.image = image
	f.imageURL = ""
	f.prediction = nil
	f.record = nil
	f.state = StateImageSelected
	return nil
}

// Retry returns a failed flow to ImageSelected, keeping the retained image.
func (f *Flow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateFailed {
		return apperrors.State("nothing to retry")
	}
	if len(f.image) == 0 {
		f.state = StateIdle
		return apperrors.State("no image retained; select a new one")
	}
	f.state = StateImageSelected
	return nil
}

// Submit runs the pipeline: store image → predict → persist. It is a no-op
// (StateError) unless the flow is exactly in ImageSelected, which guards
// against double submit. On prediction failure the flow moves to Failed
// with the image retained; on persistence failure it moves to
// PredictedUnsaved and the prediction is still returned alongside the
// error so the result can be shown.
func (f *Flow) Submit(ctx context.Context) (*Result, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, apperrors.State("a submission is already in progress")
	}
	if f.state != StateImageSelected {
		f.mu.Unlock()
		return nil, apperrors.State("no image selected")
	}
	f.inFlight = true
	f.state = StateUploading
	filename, image := f.filename, f.image
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	imageURL, err := f.store.StoreImage(ctx, image)
	if err != nil {
		f.fail()
		return nil, apperrors.WrapTransport(err)
	}
	f.notify(StageImageStored)

	f.notify(StagePredicting)
	predictCtx, cancel := context.WithTimeout(ctx, f.predictTimeout)
	defer cancel()
	prediction, err := f.predictor.Predict(predictCtx, filename, image)
	if err != nil {
		f.fail()
		return nil, apperrors.WrapTransport(err)
	}

	record, err := models.NewDiagnosisRecord(f.userID, imageURL, prediction)
	if err != nil {
		f.fail()
		return nil, err
	}

	f.mu.Lock()
	f.imageURL = imageURL
	f.prediction = prediction
	f.record = record
	f.state = StatePredicted
	f.mu.Unlock()

	result := &Result{Prediction: prediction, Record: record, ImageURL: imageURL}

	if !f.autoSave {
		// History saving disabled: the prediction is the whole result.
		f.mu.Lock()
		f.state = StateSaved
		f.mu.Unlock()
		return result, nil
	}

	f.notify(StageSaving)
	if err := f.recorder.Save(record); err != nil {
		f.mu.Lock()
		f.state = StatePredictedUnsaved
		f.mu.Unlock()
		return result, apperrors.WrapTransport(err)
	}

	f.mu.Lock()
	f.state = StateSaved
	f.mu.Unlock()
	f.notify(StageSaved)
	result.Saved = true
	return result, nil
}

// RetrySave re-attempts persistence after a failed save, without
// re-running inference. Valid only from PredictedUnsaved, and single-flight
// like Submit so a double trigger cannot persist the record twice.
func (f *Flow) RetrySave(ctx context.Context) (*Result, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, apperrors.State("a submission is already in progress")
	}
	if f.state != StatePredictedUnsaved || f.record == nil {
		f.mu.Unlock()
		return nil, apperrors.State("no unsaved prediction to persist")
	}
	f.inFlight = true
	record, prediction, imageURL := f.record, f.prediction, f.imageURL
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	result := &Result{Prediction: prediction, Record: record, ImageURL: imageURL}

	f.notify(StageSaving)
	if err := f.recorder.Save(record); err != nil {
		return result, apperrors.WrapTransport(err)
	}

	f.mu.Lock()
	f.state = StateSaved
	f.mu.Unlock()
	f.notify(StageSaved)
	result.Saved = true
	return result, nil
}

// Clear returns to Idle, discarding the image and any prediction.
func (f *Flow) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filename = ""
	f.image = nil
	f.imageURL = ""
	f.prediction = nil
	f.record = nil
	f.state = StateIdle
}

func (f *Flow) fail() {
	f.mu.Lock()
	f.state = StateFailed
	f.mu.Unlock()
}

func (f *Flow) notify(stage string) {
	if f.progress != nil {
		f.progress(stage)
	}
}
