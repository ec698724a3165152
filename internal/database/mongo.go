package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDB *mongo.Database

// ConnectMongo connects to MongoDB, used for the prediction audit log.
func ConnectMongo(mongoURI string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}

	MongoClient = client

	// Extract database name from the URI; fall back to "coffeeguard".
	dbName := "coffeeguard"
	if parts := strings.Split(mongoURI, "/"); len(parts) > 3 {
		if dbPart := strings.Split(parts[len(parts)-1], "?")[0]; dbPart != "" {
			dbName = dbPart
		}
	}
	MongoDB = client.Database(dbName)

	log.Println("✅ Connected to MongoDB")
	return nil
}

// DisconnectMongo closes the MongoDB connection.
func DisconnectMongo() error {
	if MongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return MongoClient.Disconnect(ctx)
}
