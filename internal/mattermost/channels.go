package mattermost

import (
	"context"
	"net/url"
	"strconv"
)

// GetChannelsForUser lists the channels a user belongs to on a team.
func (c *Client) GetChannelsForUser(ctx context.Context, userID, teamID string) ([]Channel, error) {
	var channels []Channel
	if err := c.get(ctx, "/users/"+userID+"/teams/"+teamID+"/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// GetChannel fetches one channel by ID.
func (c *Client) GetChannel(ctx context.Context, channelID string) (Channel, error) {
	var channel Channel
	if err := c.get(ctx, "/channels/"+channelID, nil, &channel); err != nil {
		return Channel{}, err
	}
	return channel, nil
}

// GetChannelByName fetches a channel by its URL name within a team.
func (c *Client) GetChannelByName(ctx context.Context, teamID, name string) (Channel, error) {
	var channel Channel
	if err := c.get(ctx, "/teams/"+teamID+"/channels/name/"+name, nil, &channel); err != nil {
		return Channel{}, err
	}
	return channel, nil
}

// CreateDirectChannel opens (or returns the existing) direct channel
// between the two users.
func (c *Client) CreateDirectChannel(ctx context.Context, userID, otherUserID string) (Channel, error) {
	body := []string{userID, otherUserID}

	var channel Channel
	if err := c.post(ctx, "/channels/direct", body, &channel); err != nil {
		return Channel{}, err
	}
	return channel, nil
}

// CreateGroupChannel opens a group direct channel among the given users.
func (c *Client) CreateGroupChannel(ctx context.Context, userIDs []string) (Channel, error) {
	var channel Channel
	if err := c.post(ctx, "/channels/group", userIDs, &channel); err != nil {
		return Channel{}, err
	}
	return channel, nil
}

// GetChannelMembers lists the user ids of a channel's members.
func (c *Client) GetChannelMembers(ctx context.Context, channelID string, limit int) ([]ChannelMember, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("per_page", strconv.Itoa(limit))
	}

	var members []ChannelMember
	if err := c.get(ctx, "/channels/"+channelID+"/members", query, &members); err != nil {
		return nil, err
	}
	return members, nil
}
