package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
)

const detectResponse = `{
	"disease": "Rust",
	"diseaseRw": "Isigiire",
	"confidence": 0.42,
	"severity": "severe",
	"affectedArea": 60,
	"treatment": {
		"action": "Apply fungicide spray immediately",
		"actionRw": "Kwinjiza inzira y'urugo vuba",
		"instructions": "Apply copper fungicide immediately.",
		"instructionsRw": "Kwinjiza inzira y'urugo vuba.",
		"alternative": "Combine with systemic fungicide",
		"alternativeRw": "Kupirakira n'inzira y'urugo ishya",
		"cost": "$15-30"
	},
	"allPredictions": {"Healthy": 0.3, "Red Spider Mite": 0.28, "Rust": 0.42}
}`

func TestPredictDisease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("path = %s, want /detect", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form field 'image' missing: %v", err)
		}
		file.Close()
		if header.Filename != "leaf.jpg" {
			t.Errorf("filename = %s", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(detectResponse))
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 5*time.Second)
	p, err := client.PredictDisease(context.Background(), "leaf.jpg", []byte("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("PredictDisease: %v", err)
	}

	if p.Disease != "Rust" || p.DiseaseRw != "Isigiire" {
		t.Errorf("disease = %s / %s", p.Disease, p.DiseaseRw)
	}
	if p.Severity != models.SeveritySevere {
		t.Errorf("severity = %s", p.Severity)
	}
	if p.Confidence != 0.42 {
		t.Errorf("confidence = %v, want 0.42", p.Confidence)
	}
	if models.FormatConfidence(p.Confidence) != "42%" {
		t.Errorf("display = %s, want 42%%", models.FormatConfidence(p.Confidence))
	}
	if p.Treatment.Cost != "$15-30" {
		t.Errorf("cost = %s", p.Treatment.Cost)
	}
	if len(p.AllPredictions) != 3 {
		t.Errorf("allPredictions = %v", p.AllPredictions)
	}
}

func TestPredictDiseaseNormalizesPercentConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some deployments report confidence as 0-100.
		w.Write([]byte(`{"disease":"Rust","confidence":87,"severity":"moderate","affectedArea":35,"treatment":{"action":"x"}}`))
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 5*time.Second)
	p, err := client.PredictDisease(context.Background(), "leaf.jpg", []byte("bytes"))
	if err != nil {
		t.Fatalf("PredictDisease: %v", err)
	}
	if p.Confidence != 0.87 {
		t.Errorf("confidence = %v, want canonical 0.87", p.Confidence)
	}
	if models.FormatConfidence(p.Confidence) != "87%" {
		t.Errorf("display = %s, want 87%%", models.FormatConfidence(p.Confidence))
	}
}

func TestPredictFromBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %s, want /predict", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		w.Write([]byte(detectResponse))
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 5*time.Second)
	p, err := client.PredictFromBase64(context.Background(), "aGVsbG8=")
	if err != nil {
		t.Fatalf("PredictFromBase64: %v", err)
	}
	if p.Disease != "Rust" {
		t.Errorf("disease = %s", p.Disease)
	}
}

func TestPredictDiseaseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 5*time.Second)
	_, err := client.PredictDisease(context.Background(), "leaf.jpg", []byte("bytes"))
	if !apperrors.IsAPI(err) {
		t.Fatalf("want APIError, got %T: %v", err, err)
	}
	if apperrors.IsNetwork(err) {
		t.Fatal("API error must not classify as network")
	}
}

func TestPredictDiseaseNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 20*time.Millisecond)
	_, err := client.PredictDisease(context.Background(), "leaf.jpg", []byte("bytes"))
	if !apperrors.IsNetwork(err) {
		t.Fatalf("timeout must classify as NetworkError, got %T: %v", err, err)
	}
}

func TestPredictDiseaseCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body first: with the multipart payload unread, the
		// server never notices the client abort and the request context
		// would stay live.
		io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewMLClient(srv.URL, 5*time.Second)
	_, err := client.PredictDisease(ctx, "leaf.jpg", []byte("bytes"))
	if !apperrors.IsNetwork(err) {
		t.Fatalf("cancellation must classify as NetworkError, got %T: %v", err, err)
	}
}

func TestGetDiseases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diseases/" {
			t.Errorf("path = %s, want /diseases/", r.URL.Path)
		}
		w.Write([]byte(`[{"name":"Rust","name_rw":"Isigiire"},{"name":"Healthy","name_rw":"Neza"}]`))
	}))
	defer srv.Close()

	client := NewMLClient(srv.URL, 5*time.Second)
	diseases, err := client.GetDiseases(context.Background())
	if err != nil {
		t.Fatalf("GetDiseases: %v", err)
	}
	if len(diseases) != 2 {
		t.Fatalf("got %d diseases, want 2", len(diseases))
	}
	if diseases[0]["name"] != "Rust" {
		t.Errorf("first disease = %v", diseases[0])
	}
}
