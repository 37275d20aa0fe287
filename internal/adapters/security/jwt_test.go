package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

func signToken(t *testing.T, secret string, claims accessClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	verifier := NewJWTVerifier("secret", "auth.example")
	raw := signToken(t, "secret", accessClaims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "auth.example",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	t.Parallel()
	verifier := NewJWTVerifier("secret", "auth.example")
	valid := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "auth.example",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	cases := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "not.a.token"},
		{name: "wrong secret", raw: signToken(t, "other-secret", accessClaims{RegisteredClaims: valid})},
		{name: "expired", raw: signToken(t, "secret", accessClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "auth.example",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}})},
		{name: "wrong issuer", raw: signToken(t, "secret", accessClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "evil.example",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})},
		{name: "non-uuid subject", raw: signToken(t, "secret", accessClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "auth.example",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := verifier.Verify(tc.raw); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("got %v, want ErrUnauthorized", err)
			}
		})
	}
}
