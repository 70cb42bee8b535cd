package auth

import (
	"fmt"
	"strings"
	"task-lab/domain"
	"task-lab/errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "task-lab"

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

// GenerateToken creates a signed JWT for a specific user.
func (i *TokenIssuer) GenerateToken(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: identity.UserID,
		Name:   identity.Name,
		Roles:  identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ValidateToken parses and validates the signature and expiration of a JWT string.
func (i *TokenIssuer) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// JWTVerifier is the identity verifier backed by the token issuer.
type JWTVerifier struct {
	issuer *TokenIssuer
}

func NewJWTVerifier(issuer *TokenIssuer) *JWTVerifier {
	return &JWTVerifier{issuer: issuer}
}

// Verify accepts either a raw token or a "Bearer <token>" header value.
func (v *JWTVerifier) Verify(credential string) (domain.Identity, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(credential), "Bearer "))
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: credential is missing", errors.ErrUnauthenticated)
	}
	claims, err := v.issuer.ValidateToken(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: invalid or expired token", errors.ErrUnauthenticated)
	}
	return domain.Identity{UserID: claims.UserID, Name: claims.Name, Roles: claims.Roles}, nil
}
