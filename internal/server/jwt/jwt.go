// Package jwt issues and validates workspace session tokens. A token is
// handed out when a workspace connects its data source and must accompany
// every sync call for that workspace.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the workspace session claims.
type Claims struct {
	WorkspaceID string `json:"workspace_id"`
	MemberID    string `json:"member_id"`
	jwt.RegisteredClaims
}

// Config holds the signing configuration.
type Config struct {
	Secret     []byte
	SessionTTL time.Duration
}

// GenerateSessionToken creates a signed workspace session token.
func GenerateSessionToken(cfg Config, workspaceID, memberID string) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(cfg.SessionTTL)

	claims := Claims{
		WorkspaceID: workspaceID,
		MemberID:    memberID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "timelapse",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(cfg.SessionTTL.Seconds()), nil
}

// ValidateSessionToken validates and parses a workspace session token.
func ValidateSessionToken(cfg Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
