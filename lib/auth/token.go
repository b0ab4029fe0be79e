package auth

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/golang-jwt/jwt/v4"
)

// identityClaims is the token payload: the identity name plus the
// registered standard claims.
type identityClaims struct {
	Identity string `json:"identity"`
	jwt.RegisteredClaims
}

// TokenService issues and resolves the credentials carried by requests.
// A credential is a signed HS256 token naming an identity; Authenticate
// maps it back to that identity or fails with InvalidCredential.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service with the given signing secret
// and token lifetime.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue creates a credential for the given identity.
func (t *TokenService) Issue(identity string) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a credential to an identity. Any malformed,
// forged or expired token fails with InvalidCredential.
func (t *TokenService) Authenticate(credential string) (string, error) {
	if credential == "" {
		return "", store.NewError(store.RetCInvalidCredential, "request carries no credential")
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid || claims.Identity == "" {
		return "", store.NewError(store.RetCInvalidCredential, "credential could not be resolved to an identity")
	}
	return claims.Identity, nil
}
