package common

const (
	// AuthorizationHeaderName carries the access token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RefreshTokenKeyPrefix namespaces refresh tokens in shared key/value stores.
	RefreshTokenKeyPrefix = "refreshToken:"
)
