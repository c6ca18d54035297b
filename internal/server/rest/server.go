// Package rest exposes the session lifecycle over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Sessions is the lifecycle API the handlers call.
type Sessions interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Renew(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Options configures a Server.
type Options struct {
	Address string
	// LoginRateLimit is the per-IP request rate allowed on /login and
	// /register; zero disables limiting.
	LoginRateLimit float64
	LoginRateBurst int
	Logger         logging.Logger
	Metrics        *metrics.Metrics
}

type Server struct {
	address  string
	sessions Sessions
	guard    *auth.Guard
	logger   logging.Logger
	metrics  *metrics.Metrics
	limiter  *RateLimiter
	router   *gin.Engine
}

func NewServer(sessions Sessions, guard *auth.Guard, opts Options) *Server {
	s := &Server{
		address:  opts.Address,
		sessions: sessions,
		guard:    guard,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	if s.logger == nil {
		s.logger = logging.Nop{}
	}
	s.logger = s.logger.With("module", "http_server")
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if opts.LoginRateLimit > 0 {
		s.limiter = NewRateLimiter(opts.LoginRateLimit, opts.LoginRateBurst)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.observe(), corsMiddleware())

	limited := []gin.HandlerFunc{}
	if s.limiter != nil {
		limited = append(limited, s.limiter.Middleware(s.metrics))
	}

	r.POST("/register", append(limited, s.register)...)
	r.POST("/login", append(limited, s.login)...)
	r.POST("/token", s.token)
	r.DELETE("/logout", s.logout)
	r.GET("/protected", s.accessTokenMiddleware(), s.protected)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.RunCleanup(ctx, 3*time.Minute, 5*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
