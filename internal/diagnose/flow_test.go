package diagnose

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	url   string
	err   error
	calls int
}

func (s *fakeStore) StoreImage(ctx context.Context, image []byte) (string, error) {
	s.calls++
	return s.url, s.err
}

type fakePredictor struct {
	prediction *models.Prediction
	err        error
	calls      int
}

func (p *fakePredictor) Predict(ctx context.Context, filename string, image []byte) (*models.Prediction, error) {
	p.calls++
	return p.prediction, p.err
}

type fakeRecorder struct {
	err   error
	calls int
	saved *models.DiagnosisRecord
}

func (r *fakeRecorder) Save(record *models.DiagnosisRecord) error {
	r.calls++
	if r.err == nil {
		r.saved = record
	}
	return r.err
}

func rustPrediction() *models.Prediction {
	return &models.Prediction{
		Disease:      "Rust",
		DiseaseRw:    "Isigiire",
		Confidence:   0.91,
		Severity:     "severe",
		AffectedArea: 40,
	}
}

func newTestFlow(t *testing.T, store ImageStore, predictor *fakePredictor, recorder *fakeRecorder, opts ...Option) *Flow {
	t.Helper()
	return NewFlow(uuid.New(), store, predictor, recorder, opts...)
}

func TestSelectImageRejectsNonImage(t *testing.T) {
	f := newTestFlow(t, &fakeStore{}, &fakePredictor{}, &fakeRecorder{})

	err := f.SelectImage("notes.pdf", "application/pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, StateIdle, f.State(), "state must not change on rejected selection")
}

func TestSelectImageRejectsEmpty(t *testing.T) {
	f := newTestFlow(t, &fakeStore{}, &fakePredictor{}, &fakeRecorder{})

	err := f.SelectImage("leaf.jpg", "image/jpeg", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, StateIdle, f.State())
}

func TestSubmitHappyPath(t *testing.T) {
	store := &fakeStore{url: "https://cdn.example/leaf.jpg"}
	predictor := &fakePredictor{prediction: rustPrediction()}
	recorder := &fakeRecorder{}

	var stages []string
	var mu sync.Mutex
	f := newTestFlow(t, store, predictor, recorder, WithProgress(func(stage string) {
		mu.Lock()
		stages = append(stages, stage)
		mu.Unlock()
	}))

	require.NoError(t, f.SelectImage("leaf.jpg", "image/jpeg", []byte{0xff, 0xd8}))
	assert.Equal(t, StateImageSelected, f.State())

	result, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Saved)
	assert.Equal(t, "https://cdn.example/leaf.jpg", result.ImageURL)
	assert.Equal(t, "Rust", result.Prediction.Disease)
	assert.Equal(t, StateSaved, f.State())
	assert.Equal(t, 1, recorder.calls)
	require.NotNil(t, recorder.saved)
	assert.Equal(t, models.SeveritySevere, recorder.saved.Severity)
	assert.Equal(t, []string{StageImageStored, StagePredicting, StageSaving, StageSaved}, stages)

	f.Clear()
	assert.Equal(t, StateIdle, f.State())
}

func TestSubmitRequiresSelectedImage(t *testing.T) {
	f := newTestFlow(t, &fakeStore{}, &fakePredictor{}, &fakeRecorder{})

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsState(err))
}

func TestSubmitSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	predictor := &fakePredictor{prediction: rustPrediction()}
	store := &blockingStore{url: "https://cdn.example/leaf.jpg", started: started, release: release}
	f := newTestFlow(t, store, predictor, &fakeRecorder{})

	require.NoError(t, f.SelectImage("leaf.jpg", "image/jpeg", []byte{1}))

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()

	<-started
	_, err := f.Submit(context.Background())
	require.Error(t, err, "second submit while one is in flight must be refused")
	assert.True(t, apperrors.IsState(err))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, predictor.calls, "inference must run exactly once")
}

type blockingStore struct {
	url     string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingStore) StoreImage(ctx context.Context, image []byte) (string, error) {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.url, nil
}

func TestSubmitPredictionFailureRetainsImage(t *testing.T) {
	predictor := &fakePredictor{err: errors.New("inference backend down")}
	f := newTestFlow(t, &fakeStore{url: "https://cdn.example/leaf.jpg"}, predictor, &fakeRecorder{})

	require.NoError(t, f.SelectImage("leaf.jpg", "image/jpeg", []byte{1, 2, 3}))

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, f.State())

	// The photo survives the failure, so retry needs no re-selection.
	require.NoError(t, f.Retry())
	assert.Equal(t, StateImageSelected, f.State())
}

func TestSubmitSaveFailureKeepsPrediction(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("connection refused")}
	predictor := &fakePredictor{prediction: rustPrediction()}
	f := newTestFlow(t, &fakeStore{url: "https://cdn.example/leaf.jpg"}, predictor, recorder)

	require.NoError(t, f.SelectImage("leaf.jpg", "image/jpeg", []byte{1}))

	result, err := f.Submit(context.Background())
	require.Error(t, err, "save failure must be surfaced")
	require.NotNil(t, result, "prediction must still be returned")
	assert.False(t, result.Saved)
	assert.Equal(t, "Rust", result.Prediction.Disease)
	assert.Equal(t, StatePredictedUnsaved, f.State())

	// RetrySave persists without a second inference call.
	recorder.err = nil
	retried, err := f.RetrySave(context.Background())
	require.NoError(t, err)
	assert.True(t, retried.Saved)
	assert.Equal(t, StateSaved, f.State())
	assert.Equal(t, 1, predictor.calls)
	assert.Equal(t, 2, recorder.calls)
}

func TestSubmitAutoSaveDisabled(t *testing.T) {
	recorder := &fakeRecorder{}
	f := newTestFlow(t, &fakeStore{url: "https://cdn.example/leaf.jpg"},
		&fakePredictor{prediction: rustPrediction()}, recorder, WithAutoSave(false))

	require.NoError(t, f.SelectImage("leaf.jpg", "image/jpeg", []byte{1}))

	result, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Equal(t, 0, recorder.calls, "history saving is off")
	assert.Equal(t, StateSaved, f.State())
}

type blockingRecorder struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	calls   int
}

func (r *blockingRecorder) Save(record *models.DiagnosisRecord) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.once.Do(func() { close(r.started) })
	<-r.release
	return nil
}

func TestRetrySaveSingleFlight(t *testing.T) {
	failing := &fakeRecorder{err: errors.New("connection refused")}
	f := newTestFlow(t, &fakeStore{url: "https://cdn.example/leaf.jpg"},
		&fakePredictor{prediction: rustPrediction()}, failing)

	require.NoError(t, f.SelectImage("leaf.jpg", "image/jpeg", []byte{1}))
	_, err := f.Submit(context.Background())
	require.Error(t, err)
	require.Equal(t, StatePredictedUnsaved, f.State())

	blocking := &blockingRecorder{started: make(chan struct{}), release: make(chan struct{})}
	f.recorder = blocking

	done := make(chan error, 1)
	go func() {
		_, err := f.RetrySave(context.Background())
		done <- err
	}()

	<-blocking.started
	_, err = f.RetrySave(context.Background())
	require.Error(t, err, "second retry while one is persisting must be refused")
	assert.True(t, apperrors.IsState(err))

	close(blocking.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, blocking.calls, "persistence must run exactly once")
	assert.Equal(t, StateSaved, f.State())
}

func TestRetrySaveRequiresUnsavedPrediction(t *testing.T) {
	f := newTestFlow(t, &fakeStore{}, &fakePredictor{}, &fakeRecorder{})

	_, err := f.RetrySave(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsState(err))
}
