package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a JWT token is malformed or has an
	// invalid signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a JWT token has passed its
	// expiration time.
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the JWT claims structure the upstream auth service mints for
// gateway callers. AccountID is the tenant identifier every catalog lookup
// is scoped by; Login is the human account login the bleeding-edge
// whitelist matches against.
type Claims struct {
	AccountID string `json:"account_id"`
	Login     string `json:"login"`
	jwt.RegisteredClaims
}

// JWTManager verifies bearer tokens. Token minting happens upstream; the
// Generate helper exists for tests and tooling.
type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
}

// NewJWTManager creates a JWT manager with the specified secret key and
// token duration.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

// Generate creates a token for the given account.
func (manager *JWTManager) Generate(accountID, login string) (string, error) {
	claims := &Claims{
		AccountID: accountID,
		Login:     login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(manager.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(manager.secretKey))
}

// Verify validates a token and returns the parsed claims if valid.
func (manager *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(manager.secretKey), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
