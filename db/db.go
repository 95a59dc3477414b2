package db

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection     *mongo.Collection
	BookingsCollection *mongo.Collection
	SlotCollection     *mongo.Collection
	Client             *mongo.Client
)

// Initialize MongoDB connection
func init() {
	_ = godotenv.Load()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	name := os.Getenv("MONGO_DB")
	if name == "" {
		name = "kopichat"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	UserCollection = Client.Database(name).Collection("users")
	BookingsCollection = Client.Database(name).Collection("bookings")
	SlotCollection = Client.Database(name).Collection("availableTimeSlots")
}
