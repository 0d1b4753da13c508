package mattermost

import "context"

// GetTeamsForUser lists the teams a user belongs to.
func (c *Client) GetTeamsForUser(ctx context.Context, userID string) ([]Team, error) {
	var teams []Team
	if err := c.get(ctx, "/users/"+userID+"/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam fetches one team by ID.
func (c *Client) GetTeam(ctx context.Context, teamID string) (Team, error) {
	var team Team
	if err := c.get(ctx, "/teams/"+teamID, nil, &team); err != nil {
		return Team{}, err
	}
	return team, nil
}
