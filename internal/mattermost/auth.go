package mattermost

import (
	"context"
	"errors"
	"net/http"

	"github.com/chatwire/chatwire/internal/platform"
)

// Login authenticates with username/password credentials. The session
// token arrives in the Token response header and is stored on the client
// for subsequent requests.
func (c *Client) Login(ctx context.Context, loginID, password string) (User, error) {
	body := loginRequest{LoginID: loginID, Password: password}

	respBody, headers, err := c.doRequest(ctx, http.MethodPost, "/users/login", nil, body)
	if err != nil {
		// The server reports bad credentials as 400 or 401; both mean
		// authentication failed to the caller.
		var pe *platform.Error
		if errors.As(err, &pe) && pe.HTTPStatus == http.StatusBadRequest {
			pe.Code = platform.CodeAuthentication
		}
		return User{}, err
	}

	token := headers.Get("Token")
	if token == "" {
		return User{}, platform.NewError(platform.CodeAuthentication, "login response missing session token")
	}
	c.SetToken(token)

	var user User
	if err := decodeJSON(respBody, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// LoginWithToken installs a personal access token and verifies it by
// fetching the session user.
func (c *Client) LoginWithToken(ctx context.Context, token string) (User, error) {
	c.SetToken(token)

	user, err := c.GetMe(ctx)
	if err != nil {
		c.SetToken("")
		if platform.IsCode(err, platform.CodeAuthentication) {
			return User{}, err
		}
		return User{}, platform.WrapError(platform.CodeAuthentication, "token verification failed", err)
	}
	return user, nil
}

// Logout revokes the current session and clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/users/logout", nil, nil)
	c.SetToken("")
	return err
}
