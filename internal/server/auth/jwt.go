// Package auth issues and verifies the signed tokens used by the server,
// hashes passwords and gates protected requests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Subject identifies whom a token is issued to.
type Subject struct {
	ID       int64
	Username string
}

// Claims is the payload of both access and refresh tokens: the subject's
// id and username plus the registered claims (sub, iat, exp, jti).
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity returns the subject carried by the claims.
func (c *Claims) Identity() Subject {
	return Subject{ID: c.UserID, Username: c.Username}
}

// SignerConfig configures a Signer. The two secrets must be non-empty and
// should differ so that one cannot be used to forge the other kind of token.
type SignerConfig struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration

	// Now overrides the clock used for issuing and validating; defaults to time.Now.
	Now func() time.Time
}

// Signer creates and verifies HS256 tokens.
type Signer struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

func NewSigner(cfg SignerConfig) (*Signer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("signer: empty secret")
	}
	if cfg.AccessLifetime <= 0 || cfg.RefreshLifetime <= 0 {
		return nil, errors.New("signer: lifetimes must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Signer{
		accessSecret:    cfg.AccessSecret,
		refreshSecret:   cfg.RefreshSecret,
		accessLifetime:  cfg.AccessLifetime,
		refreshLifetime: cfg.RefreshLifetime,
		now:             now,
	}, nil
}

// RefreshLifetime is the validity of refresh tokens, also used as store TTL.
func (s *Signer) RefreshLifetime() time.Duration { return s.refreshLifetime }

func (s *Signer) IssueAccess(sub Subject) (string, error) {
	return s.issue(sub, s.accessSecret, s.accessLifetime)
}

func (s *Signer) IssueRefresh(sub Subject) (string, error) {
	return s.issue(sub, s.refreshSecret, s.refreshLifetime)
}

func (s *Signer) issue(sub Subject, secret []byte, lifetime time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   sub.ID,
		Username: sub.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verify checks signature and expiry of tokenString against secret.
// It returns common.ErrTokenExpired for expired tokens and
// common.ErrInvalidToken for any other failure.
func (s *Signer) Verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Username == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (s *Signer) VerifyAccess(tokenString string) (*Claims, error) {
	return s.Verify(tokenString, s.accessSecret)
}

func (s *Signer) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.Verify(tokenString, s.refreshSecret)
}

// Decode parses tokenString WITHOUT checking its signature or expiry.
// The result may only be used to locate server-side state, never to grant access.
func (s *Signer) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.Username == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
