package mattermost

import "encoding/json"

// Post is a Mattermost post as returned by the v4 REST API. Timestamps are
// milliseconds since the Unix epoch.
type Post struct {
	ID        string   `json:"id"`
	CreateAt  int64    `json:"create_at"`
	UpdateAt  int64    `json:"update_at"`
	EditAt    int64    `json:"edit_at"`
	DeleteAt  int64    `json:"delete_at"`
	UserID    string   `json:"user_id"`
	ChannelID string   `json:"channel_id"`
	RootID    string   `json:"root_id"`
	Message   string   `json:"message"`
	Type      string   `json:"type"`
	FileIDs   []string `json:"file_ids,omitempty"`

	Metadata *PostMetadata `json:"metadata,omitempty"`
}

// PostMetadata carries the server-resolved extras attached to a post.
type PostMetadata struct {
	Files []FileInfo `json:"files,omitempty"`
}

// FileInfo describes one uploaded file.
type FileInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Extension       string `json:"extension"`
	Size            int64  `json:"size"`
	MimeType        string `json:"mime_type"`
	HasPreviewImage bool   `json:"has_preview_image"`
}

// PostList is the order-preserving container the posts endpoints return.
type PostList struct {
	Order []string        `json:"order"`
	Posts map[string]Post `json:"posts"`
}

// Channel is a Mattermost channel. Type is a single letter: O open,
// P private, D direct, G group.
type Channel struct {
	ID            string `json:"id"`
	CreateAt      int64  `json:"create_at"`
	UpdateAt      int64  `json:"update_at"`
	DeleteAt      int64  `json:"delete_at"`
	TeamID        string `json:"team_id"`
	Type          string `json:"type"`
	DisplayName   string `json:"display_name"`
	Name          string `json:"name"`
	Header        string `json:"header"`
	Purpose       string `json:"purpose"`
	LastPostAt    int64  `json:"last_post_at"`
	TotalMsgCount int64  `json:"total_msg_count"`
}

// ChannelMember links a user to a channel.
type ChannelMember struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
}

// User is a Mattermost user record.
type User struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Nickname          string `json:"nickname"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	IsBot             bool   `json:"is_bot"`
	LastPictureUpdate int64  `json:"last_picture_update"`
	DeleteAt          int64  `json:"delete_at"`
}

// Team is a Mattermost team record.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Status is a user's presence as reported by the status endpoints.
type Status struct {
	UserID         string `json:"user_id"`
	Status         string `json:"status"`
	Manual         bool   `json:"manual"`
	LastActivityAt int64  `json:"last_activity_at"`
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type createPostRequest struct {
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
	RootID    string `json:"root_id,omitempty"`

	// PendingPostID lets the server deduplicate retried creates.
	PendingPostID string `json:"pending_post_id,omitempty"`
}

type patchPostRequest struct {
	Message string `json:"message"`
}

type searchPostsRequest struct {
	Terms      string `json:"terms"`
	IsOrSearch bool   `json:"is_or_search"`
}

type updateStatusRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type apiErrorBody struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	RequestID     string `json:"request_id"`
	StatusCode    int    `json:"status_code"`
	DetailedError string `json:"detailed_error"`
}

// wsEvent is one frame on the event websocket. Event is empty on reply
// frames, which instead carry status/seq_reply.
type wsEvent struct {
	Event     string                     `json:"event"`
	Data      map[string]json.RawMessage `json:"data"`
	Broadcast wsBroadcast                `json:"broadcast"`
	Seq       int64                      `json:"seq"`
}

type wsBroadcast struct {
	UserID       string `json:"user_id"`
	ChannelID    string `json:"channel_id"`
	TeamID       string `json:"team_id"`
	ConnectionID string `json:"connection_id"`
}

// authChallenge is the first frame sent after the websocket opens.
type authChallenge struct {
	Seq    int64             `json:"seq"`
	Action string            `json:"action"`
	Data   authChallengeData `json:"data"`
}

type authChallengeData struct {
	Token string `json:"token"`
}

// userTypingRequest announces typing over the websocket.
type userTypingRequest struct {
	Seq    int64          `json:"seq"`
	Action string         `json:"action"`
	Data   userTypingData `json:"data"`
}

type userTypingData struct {
	ChannelID string `json:"channel_id"`
	ParentID  string `json:"parent_id,omitempty"`
}
