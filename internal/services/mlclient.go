package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/apperrors"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
)

// MLClient talks to the remote disease prediction service. Every call
// carries a hard timeout and is cancellable through the caller's context;
// transport failures come back as NetworkError, non-2xx responses as
// APIError with the HTTP status text.
type MLClient struct {
	baseURL string
	http    *http.Client
}

// NewMLClient builds a client for the prediction service at baseURL.
func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MLClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// PredictDisease sends raw image bytes to POST /detect (multipart form,
// field "image") and returns the normalized prediction.
func (c *MLClient) PredictDisease(ctx context.Context, filename string, image []byte) (*models.Prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doPredict(req)
}

// PredictFromBase64 sends a base64-encoded image to POST /predict, the
// alternate ingestion path.
func (c *MLClient) PredictFromBase64(ctx context.Context, imageBase64 string) (*models.Prediction, error) {
	payload, err := json.Marshal(map[string]string{"image": imageBase64})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doPredict(req)
}

func (c *MLClient) doPredict(req *http.Request) (*models.Prediction, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.WrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var prediction models.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	if prediction.Disease == "" {
		return nil, fmt.Errorf("prediction response has no disease field")
	}

	prediction.Normalize()
	return &prediction, nil
}

// GetDiseases fetches the reference disease metadata from GET /diseases/.
func (c *MLClient) GetDiseases(ctx context.Context) ([]map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/diseases/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.WrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.WrapTransport(err)
	}

	var diseases []map[string]interface{}
	if err := json.Unmarshal(data, &diseases); err != nil {
		return nil, fmt.Errorf("failed to decode diseases: %w", err)
	}
	return diseases, nil
}
