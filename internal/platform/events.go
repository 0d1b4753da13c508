package platform

// Event is a real-time event delivered by a backend. The set of
// implementations in this package is closed; adapters never surface other
// types through PollEvent.
type Event interface {
	event()
}

// MessagePosted is delivered when a new message arrives.
type MessagePosted struct {
	Message Message
}

// MessageUpdated is delivered when a message is edited.
type MessageUpdated struct {
	Message Message
}

// MessageDeleted is delivered when a message is removed.
type MessageDeleted struct {
	MessageID string
	ChannelID string
}

// UserTyping is delivered when a user starts typing in a channel.
type UserTyping struct {
	UserID    string
	ChannelID string
}

// UserJoinedChannel is delivered when a user is added to a channel.
type UserJoinedChannel struct {
	UserID    string
	ChannelID string
}

// UserLeftChannel is delivered when a user is removed from a channel.
type UserLeftChannel struct {
	UserID    string
	ChannelID string
}

// ChannelCreated is delivered when a channel is created.
type ChannelCreated struct {
	Channel Channel
}

// ChannelUpdated is delivered when a channel's attributes change.
type ChannelUpdated struct {
	Channel Channel
}

// ChannelDeleted is delivered when a channel is archived or removed.
type ChannelDeleted struct {
	ChannelID string
}

// UserStatusChanged is delivered when a user's presence changes.
type UserStatusChanged struct {
	UserID string
	Status UserStatus
}

// ConnectionStateChanged is delivered when the streaming connection
// transitions between states.
type ConnectionStateChanged struct {
	State ConnectionState
}

func (MessagePosted) event()          {}
func (MessageUpdated) event()         {}
func (MessageDeleted) event()         {}
func (UserTyping) event()             {}
func (UserJoinedChannel) event()      {}
func (UserLeftChannel) event()        {}
func (ChannelCreated) event()         {}
func (ChannelUpdated) event()         {}
func (ChannelDeleted) event()         {}
func (UserStatusChanged) event()      {}
func (ConnectionStateChanged) event() {}
