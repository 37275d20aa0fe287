package security

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// JWTVerifier validates HS256 bearer tokens minted by the hosted auth
// provider. The subject claim carries the user id.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) Verify(tokenString string) (ports.AuthClaims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return ports.AuthClaims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return ports.AuthClaims{}, fmt.Errorf("%w: wrong issuer", domain.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: malformed subject", domain.ErrUnauthorized)
	}
	return ports.AuthClaims{UserID: userID, Email: claims.Email}, nil
}
