package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, apiError{http.StatusBadRequest, "Invalid request body"})
		return
	}

	if _, err := s.sessions.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		abortWith(c, toAPIError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, apiError{http.StatusBadRequest, "Invalid request body"})
		return
	}

	pair, err := s.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWith(c, toAPIError(err))
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// token renews the access token. An unreadable body counts as a missing token.
func (s *Server) token(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	pair, err := s.sessions.Renew(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWith(c, toAPIError(err))
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := s.sessions.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		abortWith(c, toAPIError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) protected(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		abortWith(c, guardError(nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the protected route!", "user": claims})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
