// Package service implements the VH7 use cases: creating and resolving short
// links, user accounts and buckets. It also issues and checks the tokens used
// to authenticate users.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Token purposes. A token is only accepted for the purpose it was issued for.
const (
	PurposeAccess  = "access"
	PurposeConfirm = "confirm"
	PurposeReset   = "reset"
)

// TokenExp defines the default lifetime of an access token (1 week).
const TokenExp = time.Hour * 24 * 7

// EmailTokenExp defines the default lifetime of confirmation and reset tokens.
const EmailTokenExp = time.Hour * 24

// ErrInvalidToken is returned for tokens that are malformed, expired, signed
// with another key or issued for another purpose.
var ErrInvalidToken = errors.New("invalid token")

var apiKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Claims represents the claims that are included in every token.
// It embeds the RegisteredClaims from the JWT package.
type Claims struct {
	// Embedded RegisteredClaims provides standard JWT claims like Expiration, Issuer, etc.
	jwt.RegisteredClaims
	// UserID identifies the user the token was issued to.
	UserID int64 `json:"user_id"`
	// Purpose restricts where the token is accepted.
	Purpose string `json:"purpose"`
	// Email binds confirmation tokens to the address they were sent to.
	Email string `json:"email,omitempty"`
}

// Auth builds and parses signed tokens, hashes passwords and generates API
// keys.
type Auth struct {
	// secret signs every token. It must be kept private.
	secret []byte
	// accessTTL is the lifetime of access tokens.
	accessTTL time.Duration
	// emailTTL is the lifetime of confirmation and reset tokens.
	emailTTL time.Duration
	// now returns the issue time of new tokens.
	now func() time.Time
}

// NewAuth creates a new Auth signing with secret. Zero lifetimes fall back to
// TokenExp and EmailTokenExp.
func NewAuth(secret string, accessTTL, emailTTL time.Duration) (*Auth, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth secret must be at least 16 characters")
	}
	if accessTTL <= 0 {
		accessTTL = TokenExp
	}
	if emailTTL <= 0 {
		emailTTL = EmailTokenExp
	}

	return &Auth{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		emailTTL:  emailTTL,
		now:       time.Now,
	}, nil
}

// BuildJWTString generates a new access token for the user.
func (a *Auth) BuildJWTString(userID int64) (string, error) {
	return a.sign(Claims{UserID: userID, Purpose: PurposeAccess}, a.accessTTL)
}

// ParseRawJWT parses an access token and returns its claims.
func (a *Auth) ParseRawJWT(tokenString string) (*Claims, error) {
	return a.parse(tokenString, PurposeAccess)
}

// BuildEmailToken issues a confirmation or reset token. Confirmation tokens
// are bound to email.
func (a *Auth) BuildEmailToken(purpose string, userID int64, email string) (string, error) {
	claims := Claims{UserID: userID, Purpose: purpose}
	if purpose == PurposeConfirm {
		claims.Email = email
	}
	return a.sign(claims, a.emailTTL)
}

// ParseEmailToken parses a token issued by BuildEmailToken for purpose.
func (a *Auth) ParseEmailToken(tokenString, purpose string) (*Claims, error) {
	return a.parse(tokenString, purpose)
}

func (a *Auth) sign(claims Claims, ttl time.Duration) (string, error) {
	now := a.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (a *Auth) parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Purpose != purpose || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// HashPassword hashes a password with bcrypt.
func (a *Auth) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func (a *Auth) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateAPIKey returns 32 random bytes as 64 lowercase hex characters.
func (a *Auth) GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsAPIKey reports whether credential has the shape of an API key.
func IsAPIKey(credential string) bool {
	return apiKeyPattern.MatchString(credential)
}
