package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ideaforge/auth-server/internal/model"
)

// AccessTokenTTL bounds the blast radius of a compromised access token.
// There is no server-side record of issued access tokens; revocation is
// expiry only.
const AccessTokenTTL = 15 * time.Minute

// Claims represents JWT claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// JWT implements model.TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

// GenerateAccessToken creates a short-lived access token carrying the
// user's identity and a point-in-time roles snapshot.
func (j *JWT) GenerateAccessToken(userID uuid.UUID, email string, roles []string) (string, model.AccessClaims, error) {
	now := time.Now()
	jti := uuid.NewString()
	expiresAt := now.Add(AccessTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
		Roles: roles,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", model.AccessClaims{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, model.AccessClaims{
		UserID:    userID,
		Email:     email,
		Roles:     roles,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		TokenID:   jti,
	}, nil
}

// ParseAccessToken validates the signature, header fields and expiry, and
// extracts the claims. Any structural failure yields an error, never a
// panic.
func (j *JWT) ParseAccessToken(tokenString string) (model.AccessClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		if typ, _ := t.Header["typ"].(string); typ != "JWT" {
			return nil, fmt.Errorf("wrong token type %v", t.Header["typ"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.AccessClaims{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return model.AccessClaims{}, fmt.Errorf("access token is invalid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.AccessClaims{}, fmt.Errorf("failed to parse token subject: %w", err)
	}

	return model.AccessClaims{
		UserID:    userID,
		Email:     claims.Email,
		Roles:     claims.Roles,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		TokenID:   claims.ID,
	}, nil
}
