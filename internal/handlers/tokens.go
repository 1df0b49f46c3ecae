package handlers

import (
	"context"
	"time"

	"realestate/internal/auth"
	"realestate/internal/models"
	"realestate/internal/store"
)

// TokenConfig controls how access and refresh tokens are issued.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type issuedTokens struct {
	AccessToken  string
	RefreshToken string
	Record       models.RefreshToken
	ExpiresIn    int64
}

// issueTokens signs an access token and persists the hash of a fresh
// refresh token for the user.
func issueTokens(ctx context.Context, tokens store.TokenStore, user models.User, cfg TokenConfig) (*issuedTokens, error) {
	accessToken, err := auth.IssueAccessToken(user.ID, user.Role, cfg.Secret, cfg.AccessTTL)
	if err != nil {
		return nil, err
	}

	plain, err := auth.GenerateRefreshString()
	if err != nil {
		return nil, err
	}
	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: auth.HashToken(plain),
		ExpiresAt: time.Now().Add(cfg.RefreshTTL),
	}
	if err := tokens.Create(ctx, &record); err != nil {
		return nil, err
	}

	return &issuedTokens{
		AccessToken:  accessToken,
		RefreshToken: plain,
		Record:       record,
		ExpiresIn:    int64(cfg.AccessTTL.Seconds()),
	}, nil
}
