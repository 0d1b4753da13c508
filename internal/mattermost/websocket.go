package mattermost

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chatwire/chatwire/internal/platform"
)

// ManagerConfig configures a websocket Manager.
type ManagerConfig struct {
	// ServerURL is the HTTP(S) base URL of the server; the websocket
	// endpoint is derived from it.
	ServerURL string

	// Token is the session token sent in the authentication challenge.
	Token string

	// PingInterval is how often keepalive pings are sent.
	PingInterval time.Duration

	// MaxQueueSize bounds the decoded event queue. When full, new events
	// are dropped.
	MaxQueueSize int

	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration
}

func (cfg *ManagerConfig) applyDefaults() {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 1000
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
}

// WebsocketURL derives the event stream endpoint from an HTTP(S) base URL:
// https becomes wss, http becomes ws, and the v4 websocket path is
// appended.
func WebsocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", platform.WrapError(platform.CodeInvalidArgument, "invalid server url", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", platform.Errorf(platform.CodeInvalidArgument, "unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/api/v4/websocket"
	return u.String(), nil
}

// wsFrame is one outbound frame queued for the write loop.
type wsFrame struct {
	messageType int
	data        []byte
}

// Manager owns one websocket connection to the server: the authentication
// handshake, keepalive pings, inbound frame decoding, sequence tracking,
// and bounded delivery of decoded events.
//
// A Manager serves a single session. It is not reusable after Disconnect;
// create a new one to reconnect.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger

	// files resolves attachment URLs on decoded posts. May be nil.
	files fileURLResolver

	events   chan platform.Event
	shutdown chan struct{}

	shutdownOnce sync.Once
	teardownOnce sync.Once

	mu      sync.RWMutex
	state   platform.ConnectionState
	started bool
	conn    *websocket.Conn

	// writeCh feeds the write loop, which is the only goroutine that
	// touches the connection for writes. It is nil whenever no writer is
	// running, which makes foreground sends fail fast.
	writeCh chan wsFrame

	// lastSeq is touched only by the read loop.
	lastSeq int64

	// sendSeq numbers outbound request frames.
	sendSeq atomic.Int64
}

// NewManager creates a Manager. files may be nil when attachment URL
// resolution is not needed.
func NewManager(cfg ManagerConfig, files fileURLResolver, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()

	return &Manager{
		cfg:      cfg,
		logger:   logger,
		files:    files,
		events:   make(chan platform.Event, cfg.MaxQueueSize),
		shutdown: make(chan struct{}),
		state:    platform.StateDisconnected,
	}
}

// Connect opens the websocket, sends the authentication challenge, and
// starts the read and write loops. The state is Connected as soon as the
// challenge is queued; no server acknowledgment is awaited.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return platform.NewError(platform.CodeInvalidState, "already connected")
	}
	m.started = true
	m.state = platform.StateConnecting
	m.mu.Unlock()
	m.enqueueEvent(platform.ConnectionStateChanged{State: platform.StateConnecting})

	wsURL, err := WebsocketURL(m.cfg.ServerURL)
	if err != nil {
		m.setState(platform.StateDisconnected)
		return err
	}

	challenge, err := json.Marshal(authChallenge{
		Seq:    1,
		Action: "authentication_challenge",
		Data:   authChallengeData{Token: m.cfg.Token},
	})
	if err != nil {
		m.setState(platform.StateDisconnected)
		return platform.WrapError(platform.CodeUnknown, "encode authentication challenge", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: m.cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		m.setState(platform.StateDisconnected)
		return platform.WrapError(platform.CodeNetwork, "open websocket", err)
	}

	conn.SetPingHandler(func(payload string) error {
		if err := m.enqueueFrame(wsFrame{websocket.PongMessage, []byte(payload)}); err != nil {
			m.logger.Debug("dropping pong reply", "error", err)
		}
		return nil
	})
	conn.SetPongHandler(func(string) error {
		return nil
	})

	writeCh := make(chan wsFrame, 16)
	writeCh <- wsFrame{websocket.TextMessage, challenge}
	m.sendSeq.Store(1)

	m.mu.Lock()
	m.conn = conn
	m.writeCh = writeCh
	m.state = platform.StateConnected
	m.mu.Unlock()
	m.enqueueEvent(platform.ConnectionStateChanged{State: platform.StateConnected})

	go m.writeLoop(conn, writeCh)
	go m.readLoop(conn)

	m.logger.Debug("websocket connected", "url", wsURL)

	return nil
}

// Disconnect signals the loops to stop and returns immediately. The final
// transition to Disconnected happens when the loops observe the signal.
// Idempotent, and safe when never connected.
func (m *Manager) Disconnect() error {
	m.mu.RLock()
	running := m.writeCh != nil
	m.mu.RUnlock()
	if !running {
		return nil
	}

	m.shutdownOnce.Do(func() {
		m.setState(platform.StateShuttingDown)
		close(m.shutdown)
	})
	return nil
}

// State returns the current connection state.
func (m *Manager) State() platform.ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// PollEvent returns the next buffered event, or nil when none is pending.
// It never blocks.
func (m *Manager) PollEvent() platform.Event {
	select {
	case e := <-m.events:
		return e
	default:
		return nil
	}
}

// SendTyping announces that the session user is typing in a channel. It
// fails with an invalid-state error when no writer is running.
func (m *Manager) SendTyping(channelID string) error {
	data, err := json.Marshal(userTypingRequest{
		Seq:    m.sendSeq.Add(1),
		Action: "user_typing",
		Data:   userTypingData{ChannelID: channelID},
	})
	if err != nil {
		return platform.WrapError(platform.CodeUnknown, "encode typing request", err)
	}

	return m.enqueueFrame(wsFrame{websocket.TextMessage, data})
}

// enqueueFrame hands a frame to the write loop without blocking.
func (m *Manager) enqueueFrame(f wsFrame) error {
	m.mu.RLock()
	ch := m.writeCh
	m.mu.RUnlock()

	if ch == nil {
		return platform.NewError(platform.CodeInvalidState, "not connected")
	}

	select {
	case ch <- f:
		return nil
	default:
		return platform.NewError(platform.CodeNetwork, "write queue full")
	}
}

func (m *Manager) setState(s platform.ConnectionState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// teardown clears the write handle, closes the connection, and records the
// terminal state. It runs at most once no matter which loop hits a fatal
// condition first.
func (m *Manager) teardown(cause error) {
	m.teardownOnce.Do(func() {
		m.mu.Lock()
		m.writeCh = nil
		conn := m.conn
		m.state = platform.StateDisconnected
		m.mu.Unlock()

		if conn != nil {
			conn.Close()
		}

		if cause != nil {
			m.logger.Error("websocket connection lost", "error", cause)
		} else {
			m.logger.Debug("websocket closed")
		}

		m.enqueueEvent(platform.ConnectionStateChanged{State: platform.StateDisconnected})
	})
}

// writeLoop is the single owner of outbound writes: queued frames,
// keepalive pings, and the close frame on shutdown all go through it.
func (m *Manager) writeLoop(conn *websocket.Conn, writeCh <-chan wsFrame) {
	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.shutdown:
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			m.teardown(nil)
			return

		case f := <-writeCh:
			deadline := time.Now().Add(m.cfg.WriteTimeout)
			var err error
			if f.messageType == websocket.PongMessage {
				err = conn.WriteControl(websocket.PongMessage, f.data, deadline)
			} else {
				conn.SetWriteDeadline(deadline)
				err = conn.WriteMessage(f.messageType, f.data)
			}
			if err != nil {
				m.teardown(fmt.Errorf("write frame: %w", err))
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(m.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				m.teardown(fmt.Errorf("send keepalive: %w", err))
				return
			}
		}
	}
}

// readLoop consumes inbound frames until the peer closes, the socket
// fails, or shutdown is signaled.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-m.shutdown:
				m.teardown(nil)
			default:
				m.teardown(fmt.Errorf("read frame: %w", err))
			}
			return
		}

		m.handleFrame(data)
	}
}

// handleFrame decodes one text frame. Malformed payloads are logged and
// skipped; they never stop the loop.
func (m *Manager) handleFrame(data []byte) {
	var ev wsEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		m.logger.Warn("undecodable websocket frame",
			"error", err,
			"payload", snippet(data),
		)
		return
	}

	if ev.Seq > 0 {
		m.checkSeq(ev.Seq)
	}

	if ev.Event == "" {
		// Reply frame to one of our requests.
		m.logger.Debug("websocket reply", "payload", snippet(data))
		return
	}

	e, err := m.decodeEvent(ev)
	if err != nil {
		m.logger.Warn("undecodable websocket event",
			"event", ev.Event,
			"error", err,
			"payload", snippet(data),
		)
		return
	}
	if e == nil {
		m.logger.Debug("ignoring websocket event", "event", ev.Event)
		return
	}

	m.enqueueEvent(e)
}

// checkSeq compares an envelope's sequence number against the expected
// next value and logs any gap. Processing continues regardless, and the
// observed value always becomes the new baseline.
func (m *Manager) checkSeq(seq int64) {
	expected := m.lastSeq + 1
	if m.lastSeq > 0 && seq > expected {
		m.logger.Warn("websocket sequence gap",
			"expected", expected,
			"received", seq,
			"missed", seq-expected,
		)
	}
	m.lastSeq = seq
}

// enqueueEvent pushes a decoded event into the bounded queue. When the
// queue is full the new event is dropped and the drop is logged.
func (m *Manager) enqueueEvent(e platform.Event) bool {
	select {
	case m.events <- e:
		return true
	default:
		m.logger.Warn("event queue full, dropping event", "type", fmt.Sprintf("%T", e))
		return false
	}
}

// decodeEvent maps one envelope to a platform event. A nil event with nil
// error means the tag is known-uninteresting or unmapped.
func (m *Manager) decodeEvent(ev wsEvent) (platform.Event, error) {
	switch ev.Event {
	case "posted":
		post, err := doubleDecodedPost(ev.Data)
		if err != nil {
			return nil, err
		}
		return platform.MessagePosted{Message: toMessage(post, m.files)}, nil

	case "post_edited":
		post, err := doubleDecodedPost(ev.Data)
		if err != nil {
			return nil, err
		}
		return platform.MessageUpdated{Message: toMessage(post, m.files)}, nil

	case "post_deleted":
		post, err := doubleDecodedPost(ev.Data)
		if err != nil {
			return nil, err
		}
		return platform.MessageDeleted{
			MessageID: post.ID,
			ChannelID: ev.Broadcast.ChannelID,
		}, nil

	case "typing":
		userID, err := dataString(ev.Data, "user_id")
		if err != nil {
			return nil, err
		}
		return platform.UserTyping{
			UserID:    userID,
			ChannelID: ev.Broadcast.ChannelID,
		}, nil

	case "user_added":
		userID, err := dataString(ev.Data, "user_id")
		if err != nil {
			return nil, err
		}
		return platform.UserJoinedChannel{
			UserID:    userID,
			ChannelID: ev.Broadcast.ChannelID,
		}, nil

	case "user_removed":
		userID, err := dataString(ev.Data, "user_id")
		if err != nil {
			return nil, err
		}
		return platform.UserLeftChannel{
			UserID:    userID,
			ChannelID: ev.Broadcast.ChannelID,
		}, nil

	case "channel_created", "channel_updated":
		raw, ok := ev.Data["channel"]
		if !ok {
			return nil, fmt.Errorf("missing channel payload")
		}
		var ch Channel
		if err := json.Unmarshal(raw, &ch); err != nil {
			return nil, fmt.Errorf("decode channel: %w", err)
		}
		if ev.Event == "channel_created" {
			return platform.ChannelCreated{Channel: toChannel(ch)}, nil
		}
		return platform.ChannelUpdated{Channel: toChannel(ch)}, nil

	case "channel_deleted":
		return platform.ChannelDeleted{ChannelID: ev.Broadcast.ChannelID}, nil

	case "status_change":
		userID, err := dataString(ev.Data, "user_id")
		if err != nil {
			return nil, err
		}
		status, err := dataString(ev.Data, "status")
		if err != nil {
			return nil, err
		}
		return platform.UserStatusChanged{
			UserID: userID,
			Status: statusFromWire(status),
		}, nil

	default:
		return nil, nil
	}
}

// doubleDecodedPost unwraps the post payload the server double-encodes:
// data.post is a JSON string whose content is itself JSON.
func doubleDecodedPost(data map[string]json.RawMessage) (Post, error) {
	raw, ok := data["post"]
	if !ok {
		return Post{}, fmt.Errorf("missing post payload")
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return Post{}, fmt.Errorf("unwrap post payload: %w", err)
	}

	var post Post
	if err := json.Unmarshal([]byte(inner), &post); err != nil {
		return Post{}, fmt.Errorf("decode post: %w", err)
	}
	return post, nil
}

func dataString(data map[string]json.RawMessage, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}
	return s, nil
}

// snippet bounds a raw payload for log output.
func snippet(data []byte) string {
	const max = 256
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
