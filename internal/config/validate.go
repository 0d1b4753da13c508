package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server.url must be an http(s) URL, got %q", c.Server.URL)
	}

	hasToken := c.Auth.Token != ""
	hasLogin := c.Auth.Username != "" && c.Auth.Password != ""
	if !hasToken && !hasLogin {
		return errors.New("auth requires a token or a username/password pair")
	}

	if c.Websocket.MaxQueueSize < 1 {
		return errors.New("websocket.max_queue_size must be >= 1")
	}
	if c.Websocket.PingInterval <= 0 {
		return errors.New("websocket.ping_interval must be positive")
	}

	if c.Cache.ChannelTTL <= 0 || c.Cache.UserTTL <= 0 || c.Cache.TeamTTL <= 0 {
		return errors.New("cache ttls must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// Credentials returns the credential map to hand to a platform adapter.
func (c *Config) Credentials() map[string]string {
	creds := map[string]string{}
	if c.Auth.Token != "" {
		creds["token"] = c.Auth.Token
	}
	if c.Auth.Username != "" {
		creds["username"] = c.Auth.Username
		creds["password"] = c.Auth.Password
	}
	return creds
}
