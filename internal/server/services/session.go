// Package services contains server-side business logic. SessionService
// implements the token lifecycle: register, login, renew and logout.
package services

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// RefreshToken is empty after a renewal unless rotation is enabled.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService owns the per-user session state machine:
// LoggedOut -> LoggedIn -> (Renewed)* -> LoggedOut.
type SessionService struct {
	users   users.Repository
	tokens  refreshtokens.Repository
	signer  *auth.Signer
	hasher  *auth.PasswordHasher
	rotate  bool
	log     logging.Logger
	metrics *metrics.Metrics
}

// Options are optional collaborators of SessionService.
type Options struct {
	// RotateRefreshTokens makes Renew issue a new refresh token that replaces
	// the presented one.
	RotateRefreshTokens bool
	Logger              logging.Logger
	Metrics             *metrics.Metrics
}

func NewSessionService(u users.Repository, t refreshtokens.Repository, s *auth.Signer, h *auth.PasswordHasher, opts Options) *SessionService {
	svc := &SessionService{
		users:   u,
		tokens:  t,
		signer:  s,
		hasher:  h,
		rotate:  opts.RotateRefreshTokens,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if svc.log == nil {
		svc.log = logging.Nop{}
	}
	if svc.metrics == nil {
		svc.metrics = metrics.New()
	}
	return svc
}

// Register creates a user with a bcrypt hash of password. No tokens are issued.
func (s *SessionService) Register(ctx context.Context, username, password string) (u *models.User, err error) {
	defer func() { s.observe(ctx, metrics.OpRegister, username, err) }()

	if username == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, common.ErrInvalidInput
		}
		return nil, s.internal(ctx, "hash password", err)
	}

	u, err = s.users.Create(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			return nil, common.ErrUserExists
		}
		return nil, s.internal(ctx, "create user", err)
	}
	return u, nil
}

// Login checks the password and issues a new token pair. The refresh token
// replaces any earlier one stored for the user.
func (s *SessionService) Login(ctx context.Context, username, password string) (p *TokenPair, err error) {
	defer func() { s.observe(ctx, metrics.OpLogin, username, err) }()

	user, err := s.users.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.internal(ctx, "get user", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	sub := auth.Subject{ID: user.ID, Username: user.Username}
	access, err := s.signer.IssueAccess(sub)
	if err != nil {
		return nil, s.internal(ctx, "issue access token", err)
	}
	refresh, err := s.signer.IssueRefresh(sub)
	if err != nil {
		return nil, s.internal(ctx, "issue refresh token", err)
	}
	if err := s.tokens.Put(ctx, user.Username, refresh, s.signer.RefreshLifetime()); err != nil {
		return nil, s.internal(ctx, "store refresh token", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Renew exchanges a tracked, valid refresh token for a new access token.
func (s *SessionService) Renew(ctx context.Context, refreshToken string) (p *TokenPair, err error) {
	var username string
	defer func() { s.observe(ctx, metrics.OpRenew, username, err) }()

	if refreshToken == "" {
		return nil, common.ErrMissingToken
	}

	decoded, err := s.signer.Decode(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidRefreshToken
	}
	username = decoded.Username

	tracked, err := s.isTracked(ctx, username, refreshToken)
	if err != nil {
		return nil, s.internal(ctx, "get refresh token", err)
	}
	if !tracked {
		return nil, common.ErrRefreshNotFound
	}

	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidRefreshToken
	}

	sub := claims.Identity()
	access, err := s.signer.IssueAccess(sub)
	if err != nil {
		return nil, s.internal(ctx, "issue access token", err)
	}
	pair := &TokenPair{AccessToken: access}

	if s.rotate {
		refresh, err := s.signer.IssueRefresh(sub)
		if err != nil {
			return nil, s.internal(ctx, "issue refresh token", err)
		}
		if err := s.tokens.Put(ctx, sub.Username, refresh, s.signer.RefreshLifetime()); err != nil {
			return nil, s.internal(ctx, "store refresh token", err)
		}
		pair.RefreshToken = refresh
	}

	return pair, nil
}

// Logout forgets the refresh token. The signature is not checked: an entry
// can only be removed by presenting exactly the stored value.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) (err error) {
	var username string
	defer func() { s.observe(ctx, metrics.OpLogout, username, err) }()

	if refreshToken == "" {
		return common.ErrTokenNotFound
	}
	decoded, err := s.signer.Decode(refreshToken)
	if err != nil {
		return common.ErrTokenNotFound
	}
	username = decoded.Username

	tracked, err := s.isTracked(ctx, username, refreshToken)
	if err != nil {
		return s.internal(ctx, "get refresh token", err)
	}
	if !tracked {
		return common.ErrTokenNotFound
	}

	if err := s.tokens.Delete(ctx, username); err != nil {
		return s.internal(ctx, "delete refresh token", err)
	}
	return nil
}

// isTracked reports whether token is the live refresh token of username.
func (s *SessionService) isTracked(ctx context.Context, username, token string) (bool, error) {
	stored, err := s.tokens.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

func (s *SessionService) internal(ctx context.Context, step string, err error) error {
	s.log.Error(ctx, "session: "+step+" failed", "error", err)
	return common.ErrorInternal
}

func (s *SessionService) observe(ctx context.Context, op, username string, err error) {
	outcome := Outcome(err)
	s.metrics.ObserveSession(op, outcome)
	if err == nil {
		s.log.Info(ctx, op+" succeeded", "user", username)
		return
	}
	if !errors.Is(err, common.ErrorInternal) {
		s.log.Warn(ctx, op+" rejected", "user", username, "reason", outcome)
	}
}

// Outcome converts a lifecycle error into a metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, common.ErrUserExists):
		return "user_exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		return "invalid_refresh_token"
	case errors.Is(err, common.ErrRefreshNotFound):
		return "refresh_not_found"
	case errors.Is(err, common.ErrTokenNotFound):
		return "token_not_found"
	case errors.Is(err, common.ErrInvalidAccessToken):
		return "invalid_access_token"
	default:
		return "internal"
	}
}
