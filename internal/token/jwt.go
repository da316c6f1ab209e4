package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vacekto/streamit-auth/internal/model"
)

// tokenIDLength is the number of random bytes behind each token-id. The
// hex-encoded value lands in the jti claim and is the unit of revocation.
const tokenIDLength = 16

// Claims represents JWT claims carried by both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// JWT implements model.TokenIssuer backed by symmetric HMAC with separate
// access and refresh secrets.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWT creates a token issuer with the provided secrets and lifetimes.
func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

var _ model.TokenIssuer = (*JWT)(nil)

// SignAccess mints a short-lived access token with a fresh token-id.
func (j *JWT) SignAccess(user model.User) (model.TokenClaims, string, error) {
	return j.sign(user, j.accessSecret, j.accessTTL)
}

// SignRefresh mints a long-lived refresh token with a fresh token-id.
func (j *JWT) SignRefresh(user model.User) (model.TokenClaims, string, error) {
	return j.sign(user, j.refreshSecret, j.refreshTTL)
}

func (j *JWT) sign(user model.User, secret []byte, ttl time.Duration) (model.TokenClaims, string, error) {
	tokenID, err := newTokenID()
	if err != nil {
		return model.TokenClaims{}, "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return model.TokenClaims{}, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return toModelClaims(claims), tokenString, nil
}

// VerifyAccess checks an access token's signature and claim shape and
// returns the embedded claims. Expiry is not checked here; the guard
// pipeline runs it as a separate step so the rejection reason stays
// distinguishable.
func (j *JWT) VerifyAccess(tokenString string) (model.TokenClaims, error) {
	return j.verify(tokenString, j.accessSecret)
}

// VerifyRefresh checks a refresh token's signature and claim shape and
// returns the embedded claims.
func (j *JWT) VerifyRefresh(tokenString string) (model.TokenClaims, error) {
	return j.verify(tokenString, j.refreshSecret)
}

func (j *JWT) verify(tokenString string, secret []byte) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrMalformedToken, err)
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrMalformedToken
	}
	if claims.ID == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return model.TokenClaims{}, model.ErrMalformedToken
	}
	if claims.UserID == uuid.Nil {
		return model.TokenClaims{}, model.ErrMalformedToken
	}

	return toModelClaims(*claims), nil
}

func newTokenID() (string, error) {
	buf := make([]byte, tokenIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toModelClaims(claims Claims) model.TokenClaims {
	return model.TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
