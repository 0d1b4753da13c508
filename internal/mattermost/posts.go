package mattermost

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// CreatePost posts a message, optionally as a threaded reply when rootID
// is non-empty. A pending post id is attached so the server can
// deduplicate a retried create.
func (c *Client) CreatePost(ctx context.Context, channelID, rootID, message string) (Post, error) {
	body := createPostRequest{
		ChannelID:     channelID,
		Message:       message,
		RootID:        rootID,
		PendingPostID: uuid.NewString(),
	}

	var post Post
	if err := c.post(ctx, "/posts", body, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// GetPost fetches one post by ID.
func (c *Client) GetPost(ctx context.Context, postID string) (Post, error) {
	var post Post
	if err := c.get(ctx, "/posts/"+postID, nil, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// PatchPost replaces a post's message text.
func (c *Client) PatchPost(ctx context.Context, postID, message string) (Post, error) {
	var post Post
	if err := c.put(ctx, "/posts/"+postID+"/patch", patchPostRequest{Message: message}, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.delete(ctx, "/posts/"+postID)
}

// GetPostsForChannel returns the most recent posts in a channel. When
// beforeID or afterID is set the page is anchored at that post.
func (c *Client) GetPostsForChannel(ctx context.Context, channelID string, limit int, beforeID, afterID string) (PostList, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("per_page", strconv.Itoa(limit))
	}
	if beforeID != "" {
		query.Set("before", beforeID)
	}
	if afterID != "" {
		query.Set("after", afterID)
	}

	var list PostList
	if err := c.get(ctx, "/channels/"+channelID+"/posts", query, &list); err != nil {
		return PostList{}, err
	}
	return list, nil
}

// SearchPosts searches posts in a team.
func (c *Client) SearchPosts(ctx context.Context, teamID, terms string) (PostList, error) {
	body := searchPostsRequest{Terms: terms}

	var list PostList
	if err := c.post(ctx, "/teams/"+teamID+"/posts/search", body, &list); err != nil {
		return PostList{}, err
	}
	return list, nil
}

// FileURL returns the download URL for an uploaded file.
func (c *Client) FileURL(fileID string) string {
	return c.baseURL + "/files/" + fileID
}

// FileThumbnailURL returns the preview thumbnail URL for an uploaded file.
func (c *Client) FileThumbnailURL(fileID string) string {
	return c.baseURL + "/files/" + fileID + "/thumbnail"
}
