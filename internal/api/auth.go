package api

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoToken is returned when a login response carries no credential
var ErrNoToken = errors.New("login response did not include a token")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and saves the returned credential in the store
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", ErrNoToken
	}

	if err := c.store.Save(result.Token); err != nil {
		return "", err
	}
	return result.Token, nil
}

// Logout forgets the credential. The backend keeps no session to end.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// IsLoggedIn returns true if a credential is stored
func (c *Client) IsLoggedIn() bool {
	_, ok := c.store.Load()
	return ok
}
