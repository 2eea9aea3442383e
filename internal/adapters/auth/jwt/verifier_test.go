package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method gojwt.SigningMethod, key any, c Claims) string {
	t.Helper()
	s, err := gojwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		Role:  "doctor",
		Email: "ana@example.test",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "doc-1",
			Issuer:    "medivault",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify_OK(t *testing.T) {
	v := NewVerifier(secret, "medivault")
	tok := sign(t, gojwt.SigningMethodHS256, []byte(secret), validClaims())

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", c.UserID)
	assert.Equal(t, "DOCTOR", c.Role)
	assert.Equal(t, "ana@example.test", c.Email)
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier(secret, "medivault")

	expired := validClaims()
	expired.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExp := validClaims()
	noExp.ExpiresAt = nil

	otherIssuer := validClaims()
	otherIssuer.Issuer = "someone-else"

	noRole := validClaims()
	noRole.Role = ""

	cases := map[string]string{
		"wrong secret": sign(t, gojwt.SigningMethodHS256, []byte("nope"), validClaims()),
		"expired":      sign(t, gojwt.SigningMethodHS256, []byte(secret), expired),
		"no exp":       sign(t, gojwt.SigningMethodHS256, []byte(secret), noExp),
		"issuer":       sign(t, gojwt.SigningMethodHS256, []byte(secret), otherIssuer),
		"hs512":        sign(t, gojwt.SigningMethodHS512, []byte(secret), validClaims()),
		"garbage":      "a.b.c",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tok)
			assert.Error(t, err)
		})
	}

	_, err := v.Verify(context.Background(), sign(t, gojwt.SigningMethodHS256, []byte(secret), noRole))
	assert.True(t, errors.Is(err, ErrMissingClaims))

	_, err = v.Verify(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrTokenEmpty))

	_, err = NewVerifier("", "").Verify(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
