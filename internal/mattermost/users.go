package mattermost

import "context"

// GetMe fetches the session user.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	return c.GetUser(ctx, "me")
}

// GetUser fetches one user by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var user User
	if err := c.get(ctx, "/users/"+userID, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUserByUsername fetches one user by username.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	if err := c.get(ctx, "/users/username/"+username, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
