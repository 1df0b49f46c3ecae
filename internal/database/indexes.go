package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the repositories rely on. Failures are
// logged and the first one is returned.
func EnsureIndexes(db *mongo.Database) error {
	var first error
	for _, ensure := range []func(*mongo.Database) error{
		EnsureUserIndexes,
		EnsurePropertyIndexes,
		EnsureContactIndexes,
		EnsureRefreshTokenIndexes,
	} {
		if err := ensure(db); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func createIndexes(db *mongo.Database, collection, caller string, indexes []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("%s: creating %d index(es) on %s", caller, len(indexes), collection)
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("%s: index error: %v", caller, err)
		return err
	}
	log.Printf("%s: indexes ready: %v", caller, names)
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	return createIndexes(db, usersCollection, "EnsureUserIndexes", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "pendingDeletion", Value: 1}},
			Options: options.Index().
				SetName("pending_deletion").
				SetPartialFilterExpression(bson.M{"pendingDeletion": true}),
		},
	})
}

func EnsurePropertyIndexes(db *mongo.Database) error {
	return createIndexes(db, propertiesCollection, "EnsurePropertyIndexes", []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "location", Value: "text"},
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetName("property_text"),
		},
		{
			Keys: bson.D{
				{Key: "price", Value: 1},
				{Key: "type", Value: 1},
				{Key: "city", Value: 1},
			},
			Options: options.Index().SetName("price_type_city"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("owner_index"),
		},
		{
			Keys: bson.D{{Key: "buyer", Value: 1}},
			Options: options.Index().
				SetName("buyer_index").
				SetSparse(true),
		},
	})
}

func EnsureContactIndexes(db *mongo.Database) error {
	return createIndexes(db, contactsCollection, "EnsureContactIndexes", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_createdAt"),
		},
	})
}

func EnsureRefreshTokenIndexes(db *mongo.Database) error {
	return createIndexes(db, refreshTokensCollection, "EnsureRefreshTokenIndexes", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tokenHash", Value: 1}},
			Options: options.Index().SetName("tokenHash_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expiresAt_ttl").SetExpireAfterSeconds(0),
		},
	})
}
