package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningAlg     = errors.New("invalid token signing algorithm")
	ErrExpiredToken          = errors.New("expired token")
	ErrInvalidTokenSignature = errors.New("invalid token signature")
	ErrCorruptedToken        = errors.New("corrupted token")
)

// Session identifies one connection for the lifetime of its token.
type Session struct {
	Id   string
	Name string
}

// jwtCustomClaims is an unexported struct used for claims.
// Fields must be exported for JSON serialization.
type jwtCustomClaims struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewJWTManager(secretKey string, maxAge time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *JWTManager) Generate(session Session, now time.Time) (string, error) {
	claims := jwtCustomClaims{
		Id:   session.Id,
		Name: session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)

	if err != nil {
		return "", fmt.Errorf("unexpected token generation error: %w", err)
	}

	return signedToken, nil
}

func (m *JWTManager) Verify(tokenString string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (any, error) {
		// Validate the signing method is what we expect (HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSigningAlg):
			return Session{}, ErrInvalidSigningAlg
		case errors.Is(err, jwt.ErrTokenExpired):
			return Session{}, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return Session{}, ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Session{}, ErrCorruptedToken
		default:
			return Session{}, fmt.Errorf("unexpected token verification error: %w", err)
		}
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return Session{Id: claims.Id, Name: claims.Name}, nil
	}

	return Session{}, ErrCorruptedToken
}
