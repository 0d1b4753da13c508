package platform

import "time"

// ConnectionState tracks the lifecycle of a streaming connection.
type ConnectionState int

const (
	// StateDisconnected is the initial and terminal state.
	StateDisconnected ConnectionState = iota

	// StateConnecting means the transport is being opened.
	StateConnecting

	// StateConnected means the transport is open and the authentication
	// handshake has been sent.
	StateConnected

	// StateReconnecting is declared for callers that layer their own
	// recovery on top of the adapter; the adapter itself never enters it.
	StateReconnecting

	// StateShuttingDown means a disconnect has been requested and the
	// background loop has not yet observed it.
	StateShuttingDown
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// ConnectionInfo describes an authenticated session with a backend.
type ConnectionInfo struct {
	// Platform is the backend identifier (e.g. "mattermost").
	Platform string

	// Server is the endpoint the session was established against.
	Server string

	UserID          string
	UserDisplayName string

	TeamID   string
	TeamName string

	ConnectedAt time.Time

	State ConnectionState
}
