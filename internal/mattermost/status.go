package mattermost

import "context"

// GetUserStatus fetches one user's presence.
func (c *Client) GetUserStatus(ctx context.Context, userID string) (Status, error) {
	var status Status
	if err := c.get(ctx, "/users/"+userID+"/status", nil, &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// UpdateUserStatus sets a user's presence.
func (c *Client) UpdateUserStatus(ctx context.Context, userID, status string) (Status, error) {
	body := updateStatusRequest{UserID: userID, Status: status}

	var updated Status
	if err := c.put(ctx, "/users/"+userID+"/status", body, &updated); err != nil {
		return Status{}, err
	}
	return updated, nil
}
