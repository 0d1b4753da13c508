package mattermost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/chatwire/chatwire/internal/platform"
)

// restServer wires the minimal REST surface Connect needs: login, teams,
// and logout. extra handles everything else.
func restServer(t *testing.T, extra http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v4/users/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Token", "session-token")
		json.NewEncoder(w).Encode(User{ID: "self", Username: "bot", Nickname: "Bot"})
	})
	mux.HandleFunc("GET /api/v4/users/self/teams", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Team{{ID: "team1", Name: "main", DisplayName: "Main"}})
	})
	mux.HandleFunc("POST /api/v4/users/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK"}`))
	})
	if extra != nil {
		mux.HandleFunc("/", extra)
	}

	return httptest.NewServer(mux)
}

func connectedAdapter(t *testing.T, server *httptest.Server) *Adapter {
	t.Helper()
	a := New(Options{})

	_, err := a.Connect(context.Background(), platform.Config{
		Server: server.URL,
		Credentials: map[string]string{
			"username": "bot",
			"password": "hunter2",
		},
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return a
}

func TestAdapterCapabilities(t *testing.T) {
	a := New(Options{})

	caps := a.Capabilities()
	if caps.PlatformName != "mattermost" {
		t.Errorf("PlatformName = %q, want mattermost", caps.PlatformName)
	}
	if !caps.SupportsRealtimeEvents || !caps.SupportsTypingIndicators || !caps.HasThreads {
		t.Errorf("capability flags = %+v", caps)
	}
}

func TestAdapterConnect(t *testing.T) {
	server := restServer(t, nil)
	defer server.Close()

	a := connectedAdapter(t, server)
	defer a.Disconnect(context.Background())

	info, err := a.ConnectionInfo()
	if err != nil {
		t.Fatalf("ConnectionInfo failed: %v", err)
	}
	if info.Platform != "mattermost" {
		t.Errorf("Platform = %q", info.Platform)
	}
	if info.UserID != "self" {
		t.Errorf("UserID = %q, want self", info.UserID)
	}
	if info.UserDisplayName != "Bot" {
		t.Errorf("UserDisplayName = %q, want Bot", info.UserDisplayName)
	}
	if info.TeamID != "team1" || info.TeamName != "Main" {
		t.Errorf("team = %q/%q, want team1/Main", info.TeamID, info.TeamName)
	}

	// A second Connect on a live session is rejected.
	_, err = a.Connect(context.Background(), platform.Config{
		Server:      server.URL,
		Credentials: map[string]string{"token": "x"},
	})
	if !platform.IsCode(err, platform.CodeInvalidState) {
		t.Errorf("second Connect = %v, want invalid state", err)
	}
}

func TestAdapterConnectBadConfig(t *testing.T) {
	a := New(Options{})

	_, err := a.Connect(context.Background(), platform.Config{})
	if !platform.IsCode(err, platform.CodeInvalidArgument) {
		t.Errorf("missing server = %v, want invalid argument", err)
	}

	_, err = a.Connect(context.Background(), platform.Config{Server: "https://chat.example.com"})
	if !platform.IsCode(err, platform.CodeInvalidArgument) {
		t.Errorf("missing credentials = %v, want invalid argument", err)
	}
}

func TestAdapterNotConnected(t *testing.T) {
	a := New(Options{})

	if _, err := a.ConnectionInfo(); !platform.IsCode(err, platform.CodeInvalidState) {
		t.Errorf("ConnectionInfo = %v, want invalid state", err)
	}
	if _, err := a.SendMessage(context.Background(), "c1", "hi"); !platform.IsCode(err, platform.CodeInvalidState) {
		t.Errorf("SendMessage = %v, want invalid state", err)
	}
	if err := a.SendTypingIndicator(context.Background(), "c1"); !platform.IsCode(err, platform.CodeInvalidState) {
		t.Errorf("SendTypingIndicator = %v, want invalid state", err)
	}
	if err := a.SubscribeEvents(context.Background()); !platform.IsCode(err, platform.CodeInvalidState) {
		t.Errorf("SubscribeEvents = %v, want invalid state", err)
	}

	// Poll and unsubscribe are quiet no-ops without a stream.
	if e, err := a.PollEvent(); e != nil || err != nil {
		t.Errorf("PollEvent = %v, %v, want nil, nil", e, err)
	}
	if err := a.UnsubscribeEvents(context.Background()); err != nil {
		t.Errorf("UnsubscribeEvents = %v, want nil", err)
	}

	// Disconnect before connect is safe.
	if err := a.Disconnect(context.Background()); err != nil {
		t.Errorf("Disconnect = %v, want nil", err)
	}
}

func TestAdapterGetUserCached(t *testing.T) {
	var hits atomic.Int64

	server := restServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v4/users/u2" {
			hits.Add(1)
			json.NewEncoder(w).Encode(User{ID: "u2", Username: "alice"})
			return
		}
		http.NotFound(w, r)
	})
	defer server.Close()

	a := connectedAdapter(t, server)
	defer a.Disconnect(context.Background())

	for i := 0; i < 3; i++ {
		user, err := a.GetUser(context.Background(), "u2")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("Username = %q, want alice", user.Username)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("backend hits = %d, want 1 (cached)", hits.Load())
	}
}

func TestAdapterDirectChannelDisplayName(t *testing.T) {
	server := restServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v4/channels/dm1":
			json.NewEncoder(w).Encode(Channel{
				ID:   "dm1",
				Name: "other__self",
				Type: "D",
			})
		case "/api/v4/users/other":
			json.NewEncoder(w).Encode(User{ID: "other", Username: "alice", Nickname: "Alice"})
		default:
			http.NotFound(w, r)
		}
	})
	defer server.Close()

	a := connectedAdapter(t, server)
	defer a.Disconnect(context.Background())

	ch, err := a.GetChannel(context.Background(), "dm1")
	if err != nil {
		t.Fatalf("GetChannel failed: %v", err)
	}
	if ch.Type != platform.ChannelDirect {
		t.Errorf("Type = %v, want direct", ch.Type)
	}
	if ch.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q, want the partner's name", ch.DisplayName)
	}
}

func TestAdapterSendAndGetMessages(t *testing.T) {
	server := restServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/posts":
			var req createPostRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(Post{ID: "p1", ChannelID: req.ChannelID, Message: req.Message, UserID: "self"})
		case r.URL.Path == "/api/v4/channels/c1/posts":
			json.NewEncoder(w).Encode(PostList{
				Order: []string{"p2", "p1"},
				Posts: map[string]Post{
					"p1": {ID: "p1", Message: "first"},
					"p2": {ID: "p2", Message: "second"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})
	defer server.Close()

	a := connectedAdapter(t, server)
	defer a.Disconnect(context.Background())

	msg, err := a.SendMessage(context.Background(), "c1", "hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if msg.ID != "p1" || msg.Text != "hello" {
		t.Errorf("message = %+v", msg)
	}

	msgs, err := a.GetMessages(context.Background(), "c1", 10)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "p2" {
		t.Errorf("messages = %+v, want p2 first", msgs)
	}
}

func TestAdapterDisconnectClearsSession(t *testing.T) {
	server := restServer(t, nil)
	defer server.Close()

	a := connectedAdapter(t, server)

	if err := a.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if _, err := a.ConnectionInfo(); !platform.IsCode(err, platform.CodeInvalidState) {
		t.Errorf("ConnectionInfo after Disconnect = %v, want invalid state", err)
	}

	// Idempotent.
	if err := a.Disconnect(context.Background()); err != nil {
		t.Errorf("second Disconnect = %v", err)
	}
}

func TestAdapterSetStatus(t *testing.T) {
	var gotStatus string

	server := restServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/api/v4/users/self/status" {
			var req updateStatusRequest
			json.NewDecoder(r.Body).Decode(&req)
			gotStatus = req.Status
			json.NewEncoder(w).Encode(Status{UserID: "self", Status: req.Status})
			return
		}
		http.NotFound(w, r)
	})
	defer server.Close()

	a := connectedAdapter(t, server)
	defer a.Disconnect(context.Background())

	if err := a.SetStatus(context.Background(), platform.StatusAway); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if gotStatus != "away" {
		t.Errorf("status sent = %q, want away", gotStatus)
	}

	err := a.SetStatus(context.Background(), platform.StatusUnknown)
	if !platform.IsCode(err, platform.CodeInvalidArgument) {
		t.Errorf("SetStatus(unknown) = %v, want invalid argument", err)
	}
}
