package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. Each is stored as a single document.
const (
	PlacesCollection      = "places"
	ItineraryCollection   = "itinerary"
	FlightsCollection     = "flights"
	HotelsCollection      = "hotels"
	BudgetCollection      = "budget"
	ChecklistCollection   = "checklist"
	RestaurantsCollection = "restaurants"
	SettingsCollection    = "settings"
)

// TripCollection holds every trip document, keyed by collection name.
const TripCollection = "travel_data"

// Document is a loosely typed stored record. Values are limited to what JSON
// can express: string, float64, bool, nil, []any and map[string]any.
type Document = map[string]any

// DocumentStore is the remote document store as the planner needs it:
// whole-document reads and writes plus a field merge for the checklist.
type DocumentStore interface {
	Get(ctx context.Context, collection string) (Document, bool, error)
	Set(ctx context.Context, collection string, doc Document) error
	Merge(ctx context.Context, collection string, fields Document) error
}

// MongoStore keeps every collection as one document in TripCollection.
type MongoStore struct {
	Client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials Mongo and verifies the connection.
func Connect(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	slog.Info("Mongo connected", "database", database)

	return &MongoStore{
		Client: client,
		coll:   client.Database(database).Collection(TripCollection),
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *MongoStore) Get(ctx context.Context, collection string) (Document, bool, error) {
	var raw bson.Raw
	err := s.coll.FindOne(ctx, bson.M{"_id": collection}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find %s: %w", collection, err)
	}

	// Relaxed extended JSON turns int32/int64/double into plain numbers so the
	// document looks the same as one read from any other store.
	js, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, false, fmt.Errorf("convert %s: %w", collection, err)
	}
	var doc Document
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", collection, err)
	}
	delete(doc, "_id")
	return doc, true, nil
}

func (s *MongoStore) Set(ctx context.Context, collection string, doc Document) error {
	replacement := bson.M{"_id": collection}
	for k, v := range doc {
		replacement[k] = v
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": collection}, replacement, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Merge(ctx context.Context, collection string, fields Document) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": collection},
		bson.M{"$set": bson.M(fields)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("merge %s: %w", collection, err)
	}
	return nil
}
