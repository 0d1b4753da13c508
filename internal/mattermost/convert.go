package mattermost

import (
	"strings"
	"time"

	"github.com/chatwire/chatwire/internal/platform"
)

// millisToTime converts a Mattermost millisecond epoch timestamp; zero
// stays the zero time.
func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// fileURLResolver turns file ids into fetchable URLs. *Client implements
// it; a nil resolver leaves attachment URLs empty.
type fileURLResolver interface {
	FileURL(fileID string) string
	FileThumbnailURL(fileID string) string
}

func toMessage(p Post, files fileURLResolver) platform.Message {
	msg := platform.Message{
		ID:        p.ID,
		Text:      p.Message,
		SenderID:  p.UserID,
		ChannelID: p.ChannelID,
		RootID:    p.RootID,
		CreatedAt: millisToTime(p.CreateAt),
		EditedAt:  millisToTime(p.EditAt),
	}

	if p.Metadata != nil {
		for _, f := range p.Metadata.Files {
			att := platform.Attachment{
				ID:       f.ID,
				Filename: f.Name,
				MimeType: f.MimeType,
				Size:     f.Size,
			}
			if files != nil {
				att.URL = files.FileURL(f.ID)
				if f.HasPreviewImage {
					att.ThumbnailURL = files.FileThumbnailURL(f.ID)
				}
			}
			msg.Attachments = append(msg.Attachments, att)
		}
	}

	return msg
}

// toMessages flattens a PostList in its server-provided order, skipping
// ids the posts map does not resolve.
func toMessages(list PostList, files fileURLResolver) []platform.Message {
	msgs := make([]platform.Message, 0, len(list.Order))
	for _, id := range list.Order {
		p, ok := list.Posts[id]
		if !ok {
			continue
		}
		msgs = append(msgs, toMessage(p, files))
	}
	return msgs
}

func channelTypeFromWire(t string) platform.ChannelType {
	switch t {
	case "O":
		return platform.ChannelPublic
	case "P":
		return platform.ChannelPrivate
	case "D":
		return platform.ChannelDirect
	case "G":
		return platform.ChannelGroup
	default:
		return platform.ChannelPublic
	}
}

func toChannel(ch Channel) platform.Channel {
	return platform.Channel{
		ID:             ch.ID,
		Name:           ch.Name,
		DisplayName:    ch.DisplayName,
		Type:           channelTypeFromWire(ch.Type),
		TeamID:         ch.TeamID,
		Topic:          ch.Header,
		Purpose:        ch.Purpose,
		CreatedAt:      millisToTime(ch.CreateAt),
		LastActivityAt: millisToTime(ch.LastPostAt),
		Archived:       ch.DeleteAt > 0,
	}
}

// displayName picks the friendliest non-empty name for a user: nickname,
// then full name, then username.
func displayName(u User) string {
	if u.Nickname != "" {
		return u.Nickname
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}

func (c *Client) toUser(u User) platform.User {
	avatar := ""
	if u.ID != "" {
		avatar = c.baseURL + "/users/" + u.ID + "/image"
	}
	return platform.User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: displayName(u),
		Email:       u.Email,
		AvatarURL:   avatar,
		IsBot:       u.IsBot,
	}
}

func toTeam(t Team) platform.Team {
	return platform.Team{
		ID:          t.ID,
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Description: t.Description,
	}
}

func statusFromWire(s string) platform.UserStatus {
	switch s {
	case "online":
		return platform.StatusOnline
	case "away":
		return platform.StatusAway
	case "dnd", "do_not_disturb":
		return platform.StatusDoNotDisturb
	case "offline":
		return platform.StatusOffline
	default:
		return platform.StatusUnknown
	}
}

func statusToWire(s platform.UserStatus) string {
	switch s {
	case platform.StatusOnline:
		return "online"
	case platform.StatusAway:
		return "away"
	case platform.StatusDoNotDisturb:
		return "dnd"
	case platform.StatusOffline:
		return "offline"
	default:
		return ""
	}
}

// directChannelPartner extracts the other participant from a direct
// channel's name, which the server encodes as "<id>__<id>".
func directChannelPartner(channelName, selfID string) (string, bool) {
	parts := strings.Split(channelName, "__")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] == selfID {
		return parts[1], true
	}
	if parts[1] == selfID {
		return parts[0], true
	}
	return "", false
}
