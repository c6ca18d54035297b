package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/api"
)

// getSimpleText and getPassword are indirections used in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a username and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}
	defer wipe(password)

	if err := a.api.Register(ctx, userName, string(password)); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login authenticates and keeps the token pair for later commands.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}
	defer wipe(password)

	t, err := a.api.Login(ctx, userName, string(password))
	if err != nil {
		return a.fail(err)
	}
	a.userName = userName
	a.tokens = *t
	fmt.Fprintln(a.out, "Logged in as", userName)
	return nil
}

// Renew exchanges the refresh token for a new access token.
func (a *App) Renew(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}
	t, err := a.api.Renew(ctx, a.tokens.RefreshToken)
	if err != nil {
		return a.fail(err)
	}
	a.tokens.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		a.tokens.RefreshToken = t.RefreshToken
	}
	fmt.Fprintln(a.out, "Access token renewed")
	return nil
}

// WhoAmI shows who the server thinks the current access token belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}
	id, err := a.api.WhoAmI(ctx, a.tokens.AccessToken)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "%s (id %d)\n", id.Username, id.ID)
	return nil
}

// Logout revokes the refresh token and clears local state.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}
	err := a.api.Logout(ctx, a.tokens.RefreshToken)
	a.userName = ""
	a.tokens = api.Tokens{}
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) fail(err error) error {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Message)
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Server is unavailable")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}
