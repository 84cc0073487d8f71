// Package auth implements token-based identity verification and password
// hashing for the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/store"
)

// TokenCodec signs and verifies HS256 access tokens. The signing secret is
// fixed configuration handed in at construction.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec with the given shared secret and token lifetime.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token whose subject is the user's id.
func (c *TokenCodec) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Subject verifies tokenString and returns the numeric user id it carries.
// Every failure mode (malformed token, bad signature, wrong signing method,
// expiry, missing or non-numeric subject) maps to apperr.ErrUnauthenticated.
func (c *TokenCodec) Subject(tokenString string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, fmt.Errorf("%w: token has no subject", apperr.ErrUnauthenticated)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric subject %q", apperr.ErrUnauthenticated, claims.Subject)
	}
	return id, nil
}

// Verifier resolves bearer tokens to stored users: one codec check, then one
// lookup against the account store to confirm the user still exists.
type Verifier struct {
	codec *TokenCodec
	db    store.Store
}

// NewVerifier creates a Verifier backed by the given codec and store.
func NewVerifier(codec *TokenCodec, db store.Store) *Verifier {
	return &Verifier{codec: codec, db: db}
}

// Resolve returns the authenticated user for tokenString, or
// apperr.ErrUnauthenticated.
func (v *Verifier) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	id, err := v.codec.Subject(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := v.db.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %d", apperr.ErrUnauthenticated, id)
		}
		return nil, err
	}
	return user, nil
}
