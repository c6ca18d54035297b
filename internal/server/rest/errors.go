package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error"

type apiError struct {
	status  int
	message string
}

var lifecycleErrors = []struct {
	err error
	apiError
}{
	{common.ErrUserExists, apiError{http.StatusBadRequest, "User already exists"}},
	{common.ErrInvalidInput, apiError{http.StatusBadRequest, "Username and password are required"}},
	{common.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "Invalid credentials"}},
	{common.ErrMissingToken, apiError{http.StatusForbidden, "Refresh token is required"}},
	{common.ErrRefreshNotFound, apiError{http.StatusForbidden, "Invalid or expired refresh token"}},
	{common.ErrInvalidRefreshToken, apiError{http.StatusForbidden, "Invalid refresh token"}},
	{common.ErrTokenNotFound, apiError{http.StatusNotFound, "Refresh token not found"}},
}

// toAPIError maps a lifecycle error to its HTTP status and stable message.
// Anything unknown is reported as an internal error.
func toAPIError(err error) apiError {
	for _, e := range lifecycleErrors {
		if errors.Is(err, e.err) {
			return e.apiError
		}
	}
	return apiError{http.StatusInternalServerError, msgInternal}
}

// guardError maps access guard failures. A missing token is an
// authentication problem while a bad one is forbidden.
func guardError(err error) apiError {
	if errors.Is(err, common.ErrMissingToken) {
		return apiError{http.StatusUnauthorized, "Token required"}
	}
	if errors.Is(err, common.ErrInvalidAccessToken) {
		return apiError{http.StatusForbidden, "Invalid token"}
	}
	return apiError{http.StatusInternalServerError, msgInternal}
}

func abortWith(c *gin.Context, e apiError) {
	c.AbortWithStatusJSON(e.status, gin.H{"message": e.message})
}
