package services

import (
	"context"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PredictionLog is one archived raw classifier response, kept for model
// quality review. The per-class score map is exactly what the service
// returned, after confidence normalization.
type PredictionLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	ImageURL       string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Disease        string             `bson:"disease" json:"disease"`
	Confidence     float64            `bson:"confidence" json:"confidence"`
	Severity       string             `bson:"severity" json:"severity"`
	AllPredictions map[string]float64 `bson:"all_predictions,omitempty" json:"all_predictions,omitempty"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
}

// EnsurePredictionLogIndexes configures indexes for the prediction_logs
// collection. Called on startup from main after Mongo has connected.
func EnsurePredictionLogIndexes(ctx context.Context) error {
	col := database.MongoDB.Collection("prediction_logs")

	// Compound index on (user_id, timestamp) for per-user review queries.
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_user_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "disease", Value: 1}},
			Options: options.Index().SetName("idx_disease"),
		},
	}

	for _, m := range indexes {
		if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// ArchivePredictionAsync persists a raw prediction to MongoDB
// asynchronously. Fire-and-forget: a failed archive never fails the
// diagnosis, it just sets the alert banner.
func ArchivePredictionAsync(userID, imageURL string, p *models.Prediction) {
	if database.MongoDB == nil {
		return
	}

	entry := PredictionLog{
		UserID:         userID,
		ImageURL:       imageURL,
		Disease:        p.Disease,
		Confidence:     p.Confidence,
		Severity:       string(p.Severity),
		AllPredictions: p.AllPredictions,
		Timestamp:      time.Now().UTC(),
	}

	go func(e PredictionLog) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := database.MongoDB.Collection("prediction_logs")
		if _, err := col.InsertOne(ctx, e); err != nil {
			Alert.Show(err)
		}
	}(entry)
}
