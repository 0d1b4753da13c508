package platform

import "time"

// Message is a backend-neutral chat message.
type Message struct {
	ID        string
	Text      string
	SenderID  string
	ChannelID string

	// RootID is the thread root this message replies to, empty for
	// top-level messages.
	RootID string

	CreatedAt time.Time

	// EditedAt is zero if the message was never edited.
	EditedAt time.Time

	Attachments []Attachment
}

// Edited reports whether the message has been edited after posting.
func (m Message) Edited() bool {
	return !m.EditedAt.IsZero()
}

// Attachment is a file or media attachment on a message.
type Attachment struct {
	ID       string
	Filename string
	MimeType string
	Size     int64

	// URL is where the file content can be fetched.
	URL string

	// ThumbnailURL is set for images and videos that have a preview.
	ThumbnailURL string
}

// ChannelType classifies a channel.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
	ChannelDirect  ChannelType = "direct"
	ChannelGroup   ChannelType = "group"
)

// Channel is a backend-neutral conversation.
type Channel struct {
	ID          string
	Name        string
	DisplayName string
	Type        ChannelType

	// TeamID is the owning team/workspace, empty on backends without
	// workspaces.
	TeamID string

	Topic   string
	Purpose string

	CreatedAt      time.Time
	LastActivityAt time.Time

	Archived bool
}

// User is a backend-neutral user record.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
	IsBot       bool
}

// Team is a workspace/team on backends that group channels.
type Team struct {
	ID          string
	Name        string
	DisplayName string
	Description string
}

// UserStatus is a user's presence.
type UserStatus string

const (
	StatusOnline       UserStatus = "online"
	StatusAway         UserStatus = "away"
	StatusDoNotDisturb UserStatus = "dnd"
	StatusOffline      UserStatus = "offline"
	StatusUnknown      UserStatus = "unknown"
)
