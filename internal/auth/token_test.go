package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	id := primitive.NewObjectID()
	raw, err := IssueAccessToken(id, "admin", "secret", time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := ParseAccessToken(raw, "secret")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got, err := claims.UserID()
	if err != nil || got != id {
		t.Fatalf("expected subject %s, got %s (%v)", id.Hex(), got.Hex(), err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
}

func TestParseAccessTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	id := primitive.NewObjectID()
	raw, _ := IssueAccessToken(id, "user", "secret", time.Minute)
	if _, err := ParseAccessToken(raw, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, _ := IssueAccessToken(id, "user", "secret", -time.Minute)
	if _, err := ParseAccessToken(expired, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAccessTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: primitive.NewObjectID().Hex()}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseAccessToken(raw, "secret"); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword(hash, "hunter22") || CheckPassword(hash, "wrong") {
		t.Fatalf("password check mismatch")
	}
}

func TestRefreshStringsAreRandomAndHashed(t *testing.T) {
	a, _ := GenerateRefreshString()
	b, _ := GenerateRefreshString()
	if a == b || len(a) != 64 {
		t.Fatalf("unexpected refresh strings %q %q", a, b)
	}
	if HashToken(a) == a || HashToken(a) != HashToken(a) {
		t.Fatalf("hash must be deterministic and differ from input")
	}
}
