package platform

import "context"

// Config carries everything an adapter needs to establish a session. It is
// a plain record; construct it with a struct literal and pass it to Connect.
type Config struct {
	// Server is the backend base URL, e.g. "https://chat.example.com".
	Server string

	// Credentials holds backend-specific authentication material. Common
	// keys are "username"/"password" and "token".
	Credentials map[string]string

	// TeamID scopes the session to a team/workspace on backends that have
	// them. Optional.
	TeamID string

	// Extra holds backend-specific settings that do not warrant a
	// first-class field.
	Extra map[string]string
}

// Platform is the backend-neutral adapter interface. Implementations wrap
// one chat backend and translate between its wire model and the types in
// this package.
//
// Optional operations return a CodeUnsupported error on backends that lack
// them; consult Capabilities before calling.
type Platform interface {
	// Capabilities reports what this backend supports. It is callable
	// before Connect and never fails.
	Capabilities() Capabilities

	// Connect authenticates against the backend and establishes a session.
	Connect(ctx context.Context, cfg Config) (ConnectionInfo, error)

	// Disconnect tears down the session. It is idempotent.
	Disconnect(ctx context.Context) error

	// ConnectionInfo returns the current session, or an invalid-state
	// error when not connected.
	ConnectionInfo() (ConnectionInfo, error)

	// SendMessage posts a message to a channel.
	SendMessage(ctx context.Context, channelID, text string) (Message, error)

	// SendReply posts a threaded reply to a root message.
	SendReply(ctx context.Context, channelID, rootID, text string) (Message, error)

	// UpdateMessage edits an existing message's text.
	UpdateMessage(ctx context.Context, messageID, text string) (Message, error)

	// DeleteMessage removes a message.
	DeleteMessage(ctx context.Context, messageID string) error

	// GetMessages returns the most recent messages in a channel, newest
	// first.
	GetMessages(ctx context.Context, channelID string, limit int) ([]Message, error)

	// GetMessagesBefore returns messages older than the given message.
	GetMessagesBefore(ctx context.Context, channelID, beforeID string, limit int) ([]Message, error)

	// GetMessagesAfter returns messages newer than the given message.
	GetMessagesAfter(ctx context.Context, channelID, afterID string, limit int) ([]Message, error)

	// SearchMessages searches messages visible to the session user.
	SearchMessages(ctx context.Context, query string, limit int) ([]Message, error)

	// GetChannels lists channels the session user belongs to.
	GetChannels(ctx context.Context) ([]Channel, error)

	// GetChannel fetches one channel by ID.
	GetChannel(ctx context.Context, channelID string) (Channel, error)

	// GetChannelByName fetches a channel by its URL name within the
	// session team.
	GetChannelByName(ctx context.Context, name string) (Channel, error)

	// CreateDirectChannel opens (or returns the existing) direct channel
	// with another user.
	CreateDirectChannel(ctx context.Context, userID string) (Channel, error)

	// CreateGroupChannel opens a group direct channel with several users.
	CreateGroupChannel(ctx context.Context, userIDs []string) (Channel, error)

	// GetChannelMembers lists the users in a channel.
	GetChannelMembers(ctx context.Context, channelID string, limit int) ([]User, error)

	// GetUser fetches one user by ID.
	GetUser(ctx context.Context, userID string) (User, error)

	// GetUserByUsername fetches one user by username.
	GetUserByUsername(ctx context.Context, username string) (User, error)

	// GetCurrentUser fetches the session user.
	GetCurrentUser(ctx context.Context) (User, error)

	// GetTeams lists teams the session user belongs to.
	GetTeams(ctx context.Context) ([]Team, error)

	// GetTeam fetches one team by ID.
	GetTeam(ctx context.Context, teamID string) (Team, error)

	// SetStatus sets the session user's presence.
	SetStatus(ctx context.Context, status UserStatus) error

	// GetUserStatus fetches a user's presence.
	GetUserStatus(ctx context.Context, userID string) (UserStatus, error)

	// SendTypingIndicator announces that the session user is typing in a
	// channel. Requires an active event subscription.
	SendTypingIndicator(ctx context.Context, channelID string) error

	// SubscribeEvents opens the real-time event stream.
	SubscribeEvents(ctx context.Context) error

	// UnsubscribeEvents closes the real-time event stream. Idempotent.
	UnsubscribeEvents(ctx context.Context) error

	// PollEvent returns the next buffered event without blocking, or nil
	// when none is pending.
	PollEvent() (Event, error)
}
