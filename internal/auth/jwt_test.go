package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/splitledger/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	identity := models.Identity{
		TokenIdentifier: "idp|alice",
		Name:            "Alice",
		Email:           "alice@example.com",
		PictureURL:      "https://img/alice.png",
	}

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(identity)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if got := claims.Identity(); got != identity {
			t.Errorf("Identity = %+v, want %+v", got, identity)
		}
	})

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("other-secret", time.Hour).Generate(identity)
				if err != nil {
					t.Fatalf("Generate failed: %v", err)
				}
				return token
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("test-secret", -time.Minute).Generate(identity)
				if err != nil {
					t.Fatalf("Generate failed: %v", err)
				}
				return token
			},
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				token, err := manager.Generate(models.Identity{Name: "Nobody"})
				if err != nil {
					t.Fatalf("Generate failed: %v", err)
				}
				return token
			},
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
					RegisteredClaims: jwt.RegisteredClaims{Subject: "idp|alice"},
				}).SignedString(jwt.UnsafeAllowNoneSignatureType)
				if err != nil {
					t.Fatalf("SignedString failed: %v", err)
				}
				return token
			},
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Validate(tt.token(t))
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
