package db

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	SessionsCollection *mongo.Collection
	SettingsCollection *mongo.Collection
	UserCollection     *mongo.Collection
	ReceiptsCollection *mongo.Collection
	Client             *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("mozakradb")
	SessionsCollection = database.Collection("sessions")
	SettingsCollection = database.Collection("settings")
	UserCollection = database.Collection("users")
	ReceiptsCollection = database.Collection("receipts")

	ensureIndexes()
}

func ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := SessionsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "finished", Value: 1}, {Key: "startTime", Value: -1}}},
	})
	if err != nil {
		log.Printf("session index creation failed: %v", err)
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("user index creation failed: %v", err)
	}
}
