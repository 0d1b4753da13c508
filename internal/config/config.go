package config

import "time"

// Config is the root configuration for an adapter instance.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	API       APIConfig       `yaml:"api"`
	Websocket WebsocketConfig `yaml:"websocket"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig identifies the chat server to connect to.
type ServerConfig struct {
	// URL is the HTTP(S) base URL, e.g. "https://chat.example.com".
	URL string `yaml:"url"`

	// TeamID optionally scopes the session to one team.
	TeamID string `yaml:"team_id"`

	// Extra holds backend-specific settings passed through to the adapter.
	Extra map[string]string `yaml:"extra"`
}

// AuthConfig holds credentials. Either Token or the Username/Password pair
// must be set.
type AuthConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// APIConfig holds REST client settings.
type APIConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// WebsocketConfig holds event stream settings.
type WebsocketConfig struct {
	PingInterval     time.Duration `yaml:"ping_interval"`
	MaxQueueSize     int           `yaml:"max_queue_size"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// CacheConfig holds lookup cache lifetimes.
type CacheConfig struct {
	ChannelTTL time.Duration `yaml:"channel_ttl"`
	UserTTL    time.Duration `yaml:"user_ttl"`
	TeamTTL    time.Duration `yaml:"team_ttl"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}
