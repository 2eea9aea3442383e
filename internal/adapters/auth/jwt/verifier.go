package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medivault/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt verifier not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrMissingClaims = errors.New("token missing sub or role")
)

// Claims es el payload esperado: sub = id de usuario, role = PATIENT|DOCTOR|ADMIN.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	gojwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier con tokens HS256.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(strings.TrimSpace(secret)),
		issuer: strings.TrimSpace(issuer),
	}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.issuer))
	}

	var c Claims
	_, err := gojwt.ParseWithClaims(token, &c, func(*gojwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("verify token: %w", err)
	}

	sub := strings.TrimSpace(c.Subject)
	role := strings.TrimSpace(c.Role)
	if sub == "" || role == "" {
		return auth.Claims{}, ErrMissingClaims
	}

	return auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(c.Email),
		Role:   strings.ToUpper(role),
	}, nil
}
