package mattermost

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/chatwire/chatwire/internal/cache"
	"github.com/chatwire/chatwire/internal/platform"
)

// Options tunes an Adapter. The zero value is usable; unset fields take
// defaults.
type Options struct {
	Logger     *slog.Logger
	HTTPClient *http.Client

	// APITimeout bounds each REST request.
	APITimeout time.Duration

	// APIMaxRetries caps retry attempts for idempotent REST requests.
	APIMaxRetries int

	// Cache lifetimes for channel, user, and team lookups.
	ChannelTTL time.Duration
	UserTTL    time.Duration
	TeamTTL    time.Duration

	// Event stream tuning, applied when SubscribeEvents opens the
	// websocket.
	PingInterval     time.Duration
	MaxQueueSize     int
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

func (o *Options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.APITimeout <= 0 {
		o.APITimeout = 30 * time.Second
	}
	if o.APIMaxRetries <= 0 {
		o.APIMaxRetries = 3
	}
	if o.ChannelTTL <= 0 {
		o.ChannelTTL = 5 * time.Minute
	}
	if o.UserTTL <= 0 {
		o.UserTTL = 5 * time.Minute
	}
	if o.TeamTTL <= 0 {
		o.TeamTTL = 10 * time.Minute
	}
}

var _ platform.Platform = (*Adapter)(nil)

// Adapter implements the platform interface for Mattermost. It combines
// the REST client, the websocket Manager, and lookup caches behind the
// backend-neutral contract.
type Adapter struct {
	opts   Options
	logger *slog.Logger

	channels *cache.Cache[platform.Channel]
	users    *cache.Cache[platform.User]
	teams    *cache.Cache[platform.Team]

	mu      sync.RWMutex
	client  *Client
	manager *Manager
	self    User
	info    platform.ConnectionInfo
}

// New creates a disconnected Adapter.
func New(opts Options) *Adapter {
	opts.applyDefaults()

	return &Adapter{
		opts:     opts,
		logger:   opts.Logger.With("platform", "mattermost"),
		channels: cache.New[platform.Channel](),
		users:    cache.New[platform.User](),
		teams:    cache.New[platform.Team](),
	}
}

// Capabilities reports what Mattermost supports.
func (a *Adapter) Capabilities() platform.Capabilities {
	return platform.Capabilities{
		PlatformName:    "mattermost",
		PlatformVersion: "v4",

		HasWorkspaces: true,
		HasThreads:    true,

		SupportsMessageEditing:  true,
		SupportsMessageDeletion: true,
		SupportsReactions:       true,
		SupportsFileAttachments: true,
		SupportsRichText:        true,

		SupportsStatus:           true,
		SupportsCustomStatus:     true,
		SupportsTypingIndicators: true,

		SupportsPublicChannels:  true,
		SupportsPrivateChannels: true,
		SupportsDirectMessages:  true,
		SupportsGroupMessages:   true,

		SupportsRealtimeEvents: true,
		SupportsWebhooks:       true,

		SupportsSearch:         true,
		SupportsMessageHistory: true,
	}
}

// Connect authenticates against the server with either a pre-issued token
// or a login/password pair from the credential map.
func (a *Adapter) Connect(ctx context.Context, cfg platform.Config) (platform.ConnectionInfo, error) {
	if cfg.Server == "" {
		return platform.ConnectionInfo{}, platform.NewError(platform.CodeInvalidArgument, "server is required")
	}

	a.mu.Lock()
	if a.client != nil {
		a.mu.Unlock()
		return platform.ConnectionInfo{}, platform.NewError(platform.CodeInvalidState, "already connected")
	}
	a.mu.Unlock()

	clientOpts := []ClientOption{
		WithLogger(a.logger),
		WithTimeout(a.opts.APITimeout),
		WithRetries(a.opts.APIMaxRetries, time.Second),
	}
	if a.opts.HTTPClient != nil {
		clientOpts = append(clientOpts, WithHTTPClient(a.opts.HTTPClient))
	}
	client := NewClient(cfg.Server, clientOpts...)

	var (
		user User
		err  error
	)
	switch {
	case cfg.Credentials["token"] != "":
		user, err = client.LoginWithToken(ctx, cfg.Credentials["token"])
	case cfg.Credentials["username"] != "" && cfg.Credentials["password"] != "":
		user, err = client.Login(ctx, cfg.Credentials["username"], cfg.Credentials["password"])
	default:
		return platform.ConnectionInfo{}, platform.NewError(platform.CodeInvalidArgument,
			"credentials must include a token or a username/password pair")
	}
	if err != nil {
		return platform.ConnectionInfo{}, err
	}

	info := platform.ConnectionInfo{
		Platform:        "mattermost",
		Server:          cfg.Server,
		UserID:          user.ID,
		UserDisplayName: displayName(user),
		ConnectedAt:     time.Now(),
		State:           platform.StateConnected,
	}

	teamID := cfg.TeamID
	if teamID != "" {
		team, err := client.GetTeam(ctx, teamID)
		if err != nil {
			return platform.ConnectionInfo{}, err
		}
		info.TeamID = team.ID
		info.TeamName = team.DisplayName
	} else {
		teams, err := client.GetTeamsForUser(ctx, user.ID)
		if err != nil {
			return platform.ConnectionInfo{}, err
		}
		if len(teams) > 0 {
			info.TeamID = teams[0].ID
			info.TeamName = teams[0].DisplayName
		}
	}

	a.mu.Lock()
	if a.client != nil {
		a.mu.Unlock()
		return platform.ConnectionInfo{}, platform.NewError(platform.CodeInvalidState, "already connected")
	}
	a.client = client
	a.self = user
	a.info = info
	a.mu.Unlock()

	a.logger.Info("connected",
		"server", cfg.Server,
		"user_id", user.ID,
		"team_id", info.TeamID,
	)

	return info, nil
}

// Disconnect stops the event stream, revokes the session, and clears all
// cached lookups. Idempotent.
func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	client := a.client
	manager := a.manager
	a.client = nil
	a.manager = nil
	a.self = User{}
	a.info = platform.ConnectionInfo{}
	a.mu.Unlock()

	if manager != nil {
		manager.Disconnect()
	}

	a.channels.Clear()
	a.users.Clear()
	a.teams.Clear()

	if client == nil {
		return nil
	}
	if err := client.Logout(ctx); err != nil {
		a.logger.Warn("logout failed", "error", err)
	}
	return nil
}

// ConnectionInfo returns the current session.
func (a *Adapter) ConnectionInfo() (platform.ConnectionInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.client == nil {
		return platform.ConnectionInfo{}, platform.NewError(platform.CodeInvalidState, "not connected")
	}

	info := a.info
	if a.manager != nil {
		info.State = a.manager.State()
	}
	return info, nil
}

// session returns the REST client and session user, or an invalid-state
// error when not connected.
func (a *Adapter) session() (*Client, User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.client == nil {
		return nil, User{}, platform.NewError(platform.CodeInvalidState, "not connected")
	}
	return a.client, a.self, nil
}

func (a *Adapter) teamID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.info.TeamID
}

// SendMessage posts a message to a channel.
func (a *Adapter) SendMessage(ctx context.Context, channelID, text string) (platform.Message, error) {
	return a.SendReply(ctx, channelID, "", text)
}

// SendReply posts a threaded reply, or a top-level message when rootID is
// empty.
func (a *Adapter) SendReply(ctx context.Context, channelID, rootID, text string) (platform.Message, error) {
	client, _, err := a.session()
	if err != nil {
		return platform.Message{}, err
	}

	post, err := client.CreatePost(ctx, channelID, rootID, text)
	if err != nil {
		return platform.Message{}, err
	}
	return toMessage(post, client), nil
}

// UpdateMessage edits a message's text.
func (a *Adapter) UpdateMessage(ctx context.Context, messageID, text string) (platform.Message, error) {
	client, _, err := a.session()
	if err != nil {
		return platform.Message{}, err
	}

	post, err := client.PatchPost(ctx, messageID, text)
	if err != nil {
		return platform.Message{}, err
	}
	return toMessage(post, client), nil
}

// DeleteMessage removes a message.
func (a *Adapter) DeleteMessage(ctx context.Context, messageID string) error {
	client, _, err := a.session()
	if err != nil {
		return err
	}
	return client.DeletePost(ctx, messageID)
}

// GetMessages returns the most recent messages in a channel.
func (a *Adapter) GetMessages(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	return a.messagesPage(ctx, channelID, limit, "", "")
}

// GetMessagesBefore returns messages older than beforeID.
func (a *Adapter) GetMessagesBefore(ctx context.Context, channelID, beforeID string, limit int) ([]platform.Message, error) {
	return a.messagesPage(ctx, channelID, limit, beforeID, "")
}

// GetMessagesAfter returns messages newer than afterID.
func (a *Adapter) GetMessagesAfter(ctx context.Context, channelID, afterID string, limit int) ([]platform.Message, error) {
	return a.messagesPage(ctx, channelID, limit, "", afterID)
}

func (a *Adapter) messagesPage(ctx context.Context, channelID string, limit int, beforeID, afterID string) ([]platform.Message, error) {
	client, _, err := a.session()
	if err != nil {
		return nil, err
	}

	list, err := client.GetPostsForChannel(ctx, channelID, limit, beforeID, afterID)
	if err != nil {
		return nil, err
	}
	return toMessages(list, client), nil
}

// SearchMessages searches posts in the session team.
func (a *Adapter) SearchMessages(ctx context.Context, query string, limit int) ([]platform.Message, error) {
	client, _, err := a.session()
	if err != nil {
		return nil, err
	}

	teamID := a.teamID()
	if teamID == "" {
		return nil, platform.NewError(platform.CodeInvalidState, "no team selected")
	}

	list, err := client.SearchPosts(ctx, teamID, query)
	if err != nil {
		return nil, err
	}

	msgs := toMessages(list, client)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

// GetChannels lists channels the session user belongs to on the session
// team.
func (a *Adapter) GetChannels(ctx context.Context) ([]platform.Channel, error) {
	client, self, err := a.session()
	if err != nil {
		return nil, err
	}

	teamID := a.teamID()
	if teamID == "" {
		return nil, platform.NewError(platform.CodeInvalidState, "no team selected")
	}

	wire, err := client.GetChannelsForUser(ctx, self.ID, teamID)
	if err != nil {
		return nil, err
	}

	channels := make([]platform.Channel, 0, len(wire))
	for _, ch := range wire {
		converted := a.decorateChannel(ctx, toChannel(ch))
		a.channels.Set(converted.ID, converted, a.opts.ChannelTTL)
		channels = append(channels, converted)
	}
	return channels, nil
}

// GetChannel fetches one channel, preferring the cache.
func (a *Adapter) GetChannel(ctx context.Context, channelID string) (platform.Channel, error) {
	if ch, ok := a.channels.Get(channelID); ok {
		return ch, nil
	}

	client, _, err := a.session()
	if err != nil {
		return platform.Channel{}, err
	}

	wire, err := client.GetChannel(ctx, channelID)
	if err != nil {
		return platform.Channel{}, err
	}

	ch := a.decorateChannel(ctx, toChannel(wire))
	a.channels.Set(ch.ID, ch, a.opts.ChannelTTL)
	return ch, nil
}

// GetChannelByName fetches a channel by its URL name within the session
// team.
func (a *Adapter) GetChannelByName(ctx context.Context, name string) (platform.Channel, error) {
	client, _, err := a.session()
	if err != nil {
		return platform.Channel{}, err
	}

	teamID := a.teamID()
	if teamID == "" {
		return platform.Channel{}, platform.NewError(platform.CodeInvalidState, "no team selected")
	}

	wire, err := client.GetChannelByName(ctx, teamID, name)
	if err != nil {
		return platform.Channel{}, err
	}

	ch := a.decorateChannel(ctx, toChannel(wire))
	a.channels.Set(ch.ID, ch, a.opts.ChannelTTL)
	return ch, nil
}

// decorateChannel fills in the display name for direct channels, which the
// server leaves blank: it becomes the other participant's display name.
func (a *Adapter) decorateChannel(ctx context.Context, ch platform.Channel) platform.Channel {
	if ch.Type != platform.ChannelDirect || ch.DisplayName != "" {
		return ch
	}

	a.mu.RLock()
	selfID := a.self.ID
	a.mu.RUnlock()

	partnerID, ok := directChannelPartner(ch.Name, selfID)
	if !ok {
		return ch
	}

	partner, err := a.GetUser(ctx, partnerID)
	if err != nil {
		a.logger.Debug("partner lookup failed", "channel_id", ch.ID, "error", err)
		return ch
	}

	ch.DisplayName = partner.DisplayName
	return ch
}

// CreateDirectChannel opens a direct channel with another user.
func (a *Adapter) CreateDirectChannel(ctx context.Context, userID string) (platform.Channel, error) {
	client, self, err := a.session()
	if err != nil {
		return platform.Channel{}, err
	}

	wire, err := client.CreateDirectChannel(ctx, self.ID, userID)
	if err != nil {
		return platform.Channel{}, err
	}

	ch := a.decorateChannel(ctx, toChannel(wire))
	a.channels.Set(ch.ID, ch, a.opts.ChannelTTL)
	return ch, nil
}

// CreateGroupChannel opens a group direct channel.
func (a *Adapter) CreateGroupChannel(ctx context.Context, userIDs []string) (platform.Channel, error) {
	client, _, err := a.session()
	if err != nil {
		return platform.Channel{}, err
	}

	wire, err := client.CreateGroupChannel(ctx, userIDs)
	if err != nil {
		return platform.Channel{}, err
	}

	ch := toChannel(wire)
	a.channels.Set(ch.ID, ch, a.opts.ChannelTTL)
	return ch, nil
}

// GetChannelMembers lists the users in a channel.
func (a *Adapter) GetChannelMembers(ctx context.Context, channelID string, limit int) ([]platform.User, error) {
	client, _, err := a.session()
	if err != nil {
		return nil, err
	}

	members, err := client.GetChannelMembers(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}

	users := make([]platform.User, 0, len(members))
	for _, m := range members {
		user, err := a.GetUser(ctx, m.UserID)
		if err != nil {
			a.logger.Debug("member lookup failed", "user_id", m.UserID, "error", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// GetUser fetches one user, preferring the cache.
func (a *Adapter) GetUser(ctx context.Context, userID string) (platform.User, error) {
	if u, ok := a.users.Get(userID); ok {
		return u, nil
	}

	client, _, err := a.session()
	if err != nil {
		return platform.User{}, err
	}

	wire, err := client.GetUser(ctx, userID)
	if err != nil {
		return platform.User{}, err
	}

	user := client.toUser(wire)
	a.users.Set(user.ID, user, a.opts.UserTTL)
	return user, nil
}

// GetUserByUsername fetches one user by username.
func (a *Adapter) GetUserByUsername(ctx context.Context, username string) (platform.User, error) {
	client, _, err := a.session()
	if err != nil {
		return platform.User{}, err
	}

	wire, err := client.GetUserByUsername(ctx, username)
	if err != nil {
		return platform.User{}, err
	}

	user := client.toUser(wire)
	a.users.Set(user.ID, user, a.opts.UserTTL)
	return user, nil
}

// GetCurrentUser returns the session user.
func (a *Adapter) GetCurrentUser(ctx context.Context) (platform.User, error) {
	client, self, err := a.session()
	if err != nil {
		return platform.User{}, err
	}
	return client.toUser(self), nil
}

// GetTeams lists teams the session user belongs to.
func (a *Adapter) GetTeams(ctx context.Context) ([]platform.Team, error) {
	client, self, err := a.session()
	if err != nil {
		return nil, err
	}

	wire, err := client.GetTeamsForUser(ctx, self.ID)
	if err != nil {
		return nil, err
	}

	teams := make([]platform.Team, 0, len(wire))
	for _, t := range wire {
		team := toTeam(t)
		a.teams.Set(team.ID, team, a.opts.TeamTTL)
		teams = append(teams, team)
	}
	return teams, nil
}

// GetTeam fetches one team, preferring the cache.
func (a *Adapter) GetTeam(ctx context.Context, teamID string) (platform.Team, error) {
	if t, ok := a.teams.Get(teamID); ok {
		return t, nil
	}

	client, _, err := a.session()
	if err != nil {
		return platform.Team{}, err
	}

	wire, err := client.GetTeam(ctx, teamID)
	if err != nil {
		return platform.Team{}, err
	}

	team := toTeam(wire)
	a.teams.Set(team.ID, team, a.opts.TeamTTL)
	return team, nil
}

// SetStatus sets the session user's presence.
func (a *Adapter) SetStatus(ctx context.Context, status platform.UserStatus) error {
	client, self, err := a.session()
	if err != nil {
		return err
	}

	wire := statusToWire(status)
	if wire == "" {
		return platform.Errorf(platform.CodeInvalidArgument, "cannot set status %q", status)
	}

	_, err = client.UpdateUserStatus(ctx, self.ID, wire)
	return err
}

// GetUserStatus fetches a user's presence.
func (a *Adapter) GetUserStatus(ctx context.Context, userID string) (platform.UserStatus, error) {
	client, _, err := a.session()
	if err != nil {
		return platform.StatusUnknown, err
	}

	status, err := client.GetUserStatus(ctx, userID)
	if err != nil {
		return platform.StatusUnknown, err
	}
	return statusFromWire(status.Status), nil
}

// SendTypingIndicator announces typing over the event stream. Requires an
// active subscription.
func (a *Adapter) SendTypingIndicator(ctx context.Context, channelID string) error {
	a.mu.RLock()
	manager := a.manager
	a.mu.RUnlock()

	if manager == nil {
		return platform.NewError(platform.CodeInvalidState, "event stream not subscribed")
	}
	return manager.SendTyping(channelID)
}

// SubscribeEvents opens the websocket event stream using the session
// token.
func (a *Adapter) SubscribeEvents(ctx context.Context) error {
	a.mu.Lock()
	if a.client == nil {
		a.mu.Unlock()
		return platform.NewError(platform.CodeInvalidState, "not connected")
	}
	if a.manager != nil {
		a.mu.Unlock()
		return platform.NewError(platform.CodeInvalidState, "already subscribed")
	}

	manager := NewManager(ManagerConfig{
		ServerURL:        a.info.Server,
		Token:            a.client.Token(),
		PingInterval:     a.opts.PingInterval,
		MaxQueueSize:     a.opts.MaxQueueSize,
		HandshakeTimeout: a.opts.HandshakeTimeout,
		WriteTimeout:     a.opts.WriteTimeout,
	}, a.client, a.logger)
	a.manager = manager
	a.mu.Unlock()

	if err := manager.Connect(ctx); err != nil {
		a.mu.Lock()
		a.manager = nil
		a.mu.Unlock()
		return err
	}
	return nil
}

// UnsubscribeEvents closes the event stream. Idempotent.
func (a *Adapter) UnsubscribeEvents(ctx context.Context) error {
	a.mu.Lock()
	manager := a.manager
	a.manager = nil
	a.mu.Unlock()

	if manager != nil {
		manager.Disconnect()
	}
	return nil
}

// PollEvent drains one buffered event, invalidating stale cache entries
// for channel lifecycle events on the way out. Returns nil when no event
// is pending or the stream is not subscribed.
func (a *Adapter) PollEvent() (platform.Event, error) {
	a.mu.RLock()
	manager := a.manager
	a.mu.RUnlock()

	if manager == nil {
		return nil, nil
	}

	e := manager.PollEvent()
	switch ev := e.(type) {
	case platform.ChannelUpdated:
		a.channels.Invalidate(ev.Channel.ID)
	case platform.ChannelDeleted:
		a.channels.Invalidate(ev.ChannelID)
	case platform.UserStatusChanged:
		a.users.Invalidate(ev.UserID)
	}
	return e, nil
}
