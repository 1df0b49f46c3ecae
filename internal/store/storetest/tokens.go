package storetest

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"realestate/internal/models"
	"realestate/internal/store"
)

type TokenStore struct{ db *DB }

var _ store.TokenStore = TokenStore{}

func (s TokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = s.db.now()
	s.db.tokens = append(s.db.tokens, *token)
	return nil
}

func (s TokenStore) FindByHash(_ context.Context, hash string) (models.RefreshToken, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, t := range s.db.tokens {
		if t.TokenHash == hash {
			return t, nil
		}
	}
	return models.RefreshToken{}, store.ErrNotFound
}

func (s TokenStore) Rotate(_ context.Context, id, replacedBy primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.tokens {
		if s.db.tokens[i].ID == id {
			now := s.db.now()
			next := replacedBy
			s.db.tokens[i].Revoked = true
			s.db.tokens[i].RevokedAt = &now
			s.db.tokens[i].ReplacedByToken = &next
			return nil
		}
	}
	return store.ErrNotFound
}

func (s TokenStore) RevokeAll(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for i := range s.db.tokens {
		t := &s.db.tokens[i]
		if t.UserID == userID && !t.Revoked {
			now := s.db.now()
			t.Revoked = true
			t.RevokedAt = &now
			n++
		}
	}
	return n, nil
}
