// Package token implements the signed session-token codec: minting and
// verifying HMAC-SHA256 JWTs for access and refresh tokens.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

// Kind distinguishes the two token flavours the codec mints.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// refreshMarker is the value of the "type" claim carried only by refresh
// tokens; access tokens omit the claim entirely.
const refreshMarker = "refresh"

// minKeyBytes is the minimum HMAC key length for HS256.
const minKeyBytes = 32

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// Claims is the claim set carried by both token kinds.
type Claims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Codec mints and verifies signed session tokens. It is immutable after
// construction and safe for concurrent use.
type Codec struct {
	key []byte
	log zerolog.Logger
}

// NewCodec derives the signing key from the configured secret and returns a
// ready codec.
//
// Key derivation keeps wire compatibility with tokens issued by the previous
// deployment of this system: a secret longer than 32 characters that looks
// like base64 is decoded first, anything else is used as raw bytes, and key
// material shorter than 32 bytes is zero-padded up to 32. Padding weakens the
// effective key, so it is logged loudly; operators should configure a full
// 256-bit secret.
func NewCodec(secret string, log zerolog.Logger) *Codec {
	return &Codec{key: deriveKey(secret, log), log: log}
}

func deriveKey(secret string, log zerolog.Logger) []byte {
	var key []byte
	if len(secret) > minKeyBytes && base64Pattern.MatchString(secret) {
		decoded, err := base64.StdEncoding.DecodeString(secret)
		if err == nil {
			key = decoded
		} else {
			log.Debug().Msg("jwt secret is not valid base64, using raw bytes")
			key = []byte(secret)
		}
	} else {
		key = []byte(secret)
	}

	if len(key) < minKeyBytes {
		log.Warn().Int("key_bytes", len(key)).
			Msg("jwt secret shorter than 256 bits, zero-padding to 32 bytes")
		padded := make([]byte, minKeyBytes)
		copy(padded, key)
		key = padded
	}
	return key
}

// Mint builds and signs a token of the given kind for subject, valid for ttl.
// Refresh tokens carry the "type":"refresh" claim; access tokens do not.
func (c *Codec) Mint(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if kind == KindRefresh {
		claims.Type = refreshMarker
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and standard claims and returns the parsed
// claim set. Failures map onto the domain token-error taxonomy:
// domain.ErrExpiredToken for expiry, domain.ErrUnsupportedToken for a wrong
// algorithm or structure, domain.ErrInvalidToken for everything else
// (malformed input, bad signature). Both specific errors also unwrap to
// domain.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, domain.ErrUnsupportedToken
		}
		return c.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, domain.ErrExpiredToken)
		case errors.Is(err, domain.ErrUnsupportedToken), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, domain.ErrUnsupportedToken)
		default:
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Subject returns the subject claim of a valid token.
func (c *Codec) Subject(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExpiresAt returns the expiry of a valid token.
func (c *Codec) ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, domain.ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

// IsRefresh reports whether a valid token is a refresh token.
func (c *Codec) IsRefresh(tokenString string) (bool, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return false, err
	}
	return claims.Type == refreshMarker, nil
}
