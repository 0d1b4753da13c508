package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout       = 30 * time.Second
	DefaultAPIMaxRetries    = 3
	DefaultPingInterval     = 30 * time.Second
	DefaultMaxQueueSize     = 1000
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultChannelTTL       = 5 * time.Minute
	DefaultUserTTL          = 5 * time.Minute
	DefaultTeamTTL          = 10 * time.Minute
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultAPIMaxRetries
	}

	if c.Websocket.PingInterval == 0 {
		c.Websocket.PingInterval = DefaultPingInterval
	}
	if c.Websocket.MaxQueueSize == 0 {
		c.Websocket.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.Websocket.HandshakeTimeout == 0 {
		c.Websocket.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Websocket.WriteTimeout == 0 {
		c.Websocket.WriteTimeout = DefaultWriteTimeout
	}

	if c.Cache.ChannelTTL == 0 {
		c.Cache.ChannelTTL = DefaultChannelTTL
	}
	if c.Cache.UserTTL == 0 {
		c.Cache.UserTTL = DefaultUserTTL
	}
	if c.Cache.TeamTTL == 0 {
		c.Cache.TeamTTL = DefaultTeamTTL
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}
