package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func TestGuard_Authenticate(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := newTestSigner(t, clock)
	g := NewGuard(s)

	access, _ := s.IssueAccess(Subject{ID: 7, Username: "carol"})
	refresh, _ := s.IssueRefresh(Subject{ID: 7, Username: "carol"})

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid", "Bearer " + access, nil},
		{"empty header", "", common.ErrMissingToken},
		{"scheme only", "Bearer", common.ErrMissingToken},
		{"scheme and space", "Bearer ", common.ErrMissingToken},
		{"wrong scheme", "Basic " + access, common.ErrMissingToken},
		{"lowercase scheme", "bearer " + access, common.ErrMissingToken},
		{"token only", access, common.ErrMissingToken},
		{"extra parts", "Bearer " + access + " extra", common.ErrMissingToken},
		{"garbage token", "Bearer abc.def.ghi", common.ErrInvalidAccessToken},
		{"refresh token", "Bearer " + refresh, common.ErrInvalidAccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := g.Authenticate(tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.UserID != 7 || claims.Username != "carol" {
				t.Fatalf("unexpected claims: %+v", claims)
			}
		})
	}
}

func TestGuard_ExpiredAccessToken(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := newTestSigner(t, clock)
	g := NewGuard(s)

	access, _ := s.IssueAccess(Subject{ID: 1, Username: "dave"})
	clock.Advance(2 * time.Minute)

	if _, err := g.Authenticate("Bearer " + access); !errors.Is(err, common.ErrInvalidAccessToken) {
		t.Fatalf("expected common.ErrInvalidAccessToken, got %v", err)
	}
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Fatal("empty context must not carry claims")
	}

	c := &Claims{UserID: 3, Username: "erin"}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), c))
	if !ok || got != c {
		t.Fatalf("claims lost: %+v %v", got, ok)
	}
}
