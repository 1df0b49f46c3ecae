package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"realestate/internal/models"
	"realestate/internal/store"
)

type TokenRepository struct {
	tokens *mongo.Collection
}

var _ store.TokenStore = (*TokenRepository)(nil)

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{tokens: db.Collection(refreshTokensCollection)}
}

func (r *TokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = time.Now().UTC()
	_, err := r.tokens.InsertOne(ctx, token)
	return err
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.tokens.FindOne(ctx, bson.M{"tokenHash": hash}).Decode(&token)
	return token, notFound(err)
}

func (r *TokenRepository) Rotate(ctx context.Context, id, replacedBy primitive.ObjectID) error {
	res, err := r.tokens.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"revoked":         true,
		"revokedAt":       time.Now().UTC(),
		"replacedByToken": replacedBy,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *TokenRepository) RevokeAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.tokens.UpdateMany(ctx,
		bson.M{"userId": userID, "revoked": false},
		bson.M{"$set": bson.M{"revoked": true, "revokedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
