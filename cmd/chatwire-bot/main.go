package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chatwire/chatwire/internal/config"
	"github.com/chatwire/chatwire/internal/mattermost"
	"github.com/chatwire/chatwire/internal/platform"
	"github.com/chatwire/chatwire/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/chatwire.local.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting chatwire bot",
		"version", version.Version,
		"commit", version.Commit,
		"server", cfg.Server.URL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	adapter := mattermost.New(mattermost.Options{
		Logger:           logger,
		APITimeout:       cfg.API.Timeout,
		APIMaxRetries:    cfg.API.MaxRetries,
		ChannelTTL:       cfg.Cache.ChannelTTL,
		UserTTL:          cfg.Cache.UserTTL,
		TeamTTL:          cfg.Cache.TeamTTL,
		PingInterval:     cfg.Websocket.PingInterval,
		MaxQueueSize:     cfg.Websocket.MaxQueueSize,
		HandshakeTimeout: cfg.Websocket.HandshakeTimeout,
		WriteTimeout:     cfg.Websocket.WriteTimeout,
	})

	info, err := adapter.Connect(ctx, platform.Config{
		Server:      cfg.Server.URL,
		Credentials: cfg.Credentials(),
		TeamID:      cfg.Server.TeamID,
		Extra:       cfg.Server.Extra,
	})
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}

	logger.Info("connected",
		"user", info.UserDisplayName,
		"team", info.TeamName,
	)

	if err := adapter.SubscribeEvents(ctx); err != nil {
		logger.Error("failed to subscribe to events", "error", err)
		os.Exit(1)
	}

	run(ctx, adapter, info, logger)

	// Graceful shutdown with a bounded window
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := adapter.Disconnect(shutdownCtx); err != nil {
		logger.Error("disconnect failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// run polls the event stream and echoes "pong" to any message reading
// "ping", until the context is canceled.
func run(ctx context.Context, adapter *mattermost.Adapter, info platform.ConnectionInfo, logger *slog.Logger) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for {
			event, err := adapter.PollEvent()
			if err != nil {
				logger.Error("poll failed", "error", err)
				return
			}
			if event == nil {
				break
			}
			handleEvent(ctx, adapter, info, logger, event)
		}
	}
}

func handleEvent(ctx context.Context, adapter *mattermost.Adapter, info platform.ConnectionInfo, logger *slog.Logger, event platform.Event) {
	switch ev := event.(type) {
	case platform.MessagePosted:
		if ev.Message.SenderID == info.UserID {
			return
		}
		logger.Info("message",
			"channel_id", ev.Message.ChannelID,
			"sender_id", ev.Message.SenderID,
			"text", ev.Message.Text,
		)
		if strings.EqualFold(strings.TrimSpace(ev.Message.Text), "ping") {
			if _, err := adapter.SendReply(ctx, ev.Message.ChannelID, ev.Message.ID, "pong"); err != nil {
				logger.Warn("reply failed", "error", err)
			}
		}

	case platform.ConnectionStateChanged:
		logger.Info("connection state changed", "state", ev.State)

	case platform.UserStatusChanged:
		logger.Debug("status changed", "user_id", ev.UserID, "status", ev.Status)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
