package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Guard authenticates protected requests by their access token only; it
// never consults the refresh token store.
type Guard struct {
	signer *Signer
}

func NewGuard(s *Signer) *Guard {
	return &Guard{signer: s}
}

// Authenticate expects rawHeader in the "Bearer <token>" form. A missing or
// malformed header yields common.ErrMissingToken, a token that fails
// verification yields common.ErrInvalidAccessToken.
func (g *Guard) Authenticate(rawHeader string) (*Claims, error) {
	token, ok := bearerToken(rawHeader)
	if !ok {
		return nil, common.ErrMissingToken
	}

	claims, err := g.signer.VerifyAccess(token)
	if err != nil {
		return nil, common.ErrInvalidAccessToken
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != common.BearerScheme {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

type ctxKey string

const claimsKey ctxKey = "claims"

// WithClaims returns a copy of ctx carrying the authenticated claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims stored by WithClaims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}
