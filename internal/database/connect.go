// Package database implements the store interfaces on MongoDB.
package database

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"realestate/internal/store"
)

const (
	usersCollection         = "users"
	propertiesCollection    = "properties"
	contactsCollection      = "contacts"
	refreshTokensCollection = "refresh_tokens"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Println("Connect: MongoDB ping ok")
	return client, nil
}

// NewStores returns the MongoDB-backed store bundle for db.
func NewStores(db *mongo.Database) store.Stores {
	return store.Stores{
		Users:      NewUserRepository(db),
		Properties: NewPropertyRepository(db),
		Contacts:   NewContactRepository(db),
		Tokens:     NewTokenRepository(db),
		Health:     pinger{client: db.Client()},
	}
}

type pinger struct {
	client *mongo.Client
}

func (p pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// notFound maps the driver's no-documents error onto store.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// findPage counts the matches and fetches one page of them.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts store.ListOptions, sort bson.D) (store.Page[T], error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return store.Page[T]{}, err
	}

	findOpts := options.Find().SetSkip(opts.Skip()).SetSort(sort)
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if projection := projectionDoc(opts.Select); projection != nil {
		findOpts.SetProjection(projection)
	}

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return store.Page[T]{}, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return store.Page[T]{}, err
	}
	return store.Page[T]{Items: items, Total: total}, nil
}

// objectIDs decodes the _id of every document matched by filter.
func objectIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
