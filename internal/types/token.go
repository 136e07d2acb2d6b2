package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the payload of the auth_token issued at login.
// The jwt.Claims getters come from the embedded RegisteredClaims.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsStaff  bool      `json:"is_staff"`
}

// NewTokenClaims builds claims for userID valid for ttl from issuedAt
func NewTokenClaims(userID uuid.UUID, username string, staff bool, issuedAt time.Time, ttl time.Duration) *TokenClaims {
	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
		IsStaff:  staff,
	}
}
