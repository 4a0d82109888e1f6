// Package realtime pushes events to browsers through Pusher channels.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	pusher "github.com/pusher/pusher-http-go/v5"
)

const EventAssistantItemCreated = "assistant.item_created"

var ErrChannelForbidden = errors.New("channel not allowed for this user")

type Publisher interface {
	Publish(ctx context.Context, channel, event string, data any) error
	// Authorize signs a private-channel subscription. params is the raw
	// form body Pusher's client library posts (socket_id, channel_name).
	Authorize(userID int64, channel string, params []byte) ([]byte, error)
}

// UserChannel is the private channel a user's browser subscribes to.
func UserChannel(userID int64) string {
	return "private-user-" + strconv.FormatInt(userID, 10)
}

type Config struct {
	AppID   string
	Key     string
	Secret  string
	Cluster string
}

type pusherPublisher struct {
	client *pusher.Client
}

func NewPusher(cfg Config) Publisher {
	return &pusherPublisher{client: &pusher.Client{
		AppID:   cfg.AppID,
		Key:     cfg.Key,
		Secret:  cfg.Secret,
		Cluster: cfg.Cluster,
		Secure:  true,
	}}
}

func (p *pusherPublisher) Publish(ctx context.Context, channel, event string, data any) error {
	if err := p.client.Trigger(channel, event, data); err != nil {
		return fmt.Errorf("pusher trigger %s on %s: %w", event, channel, err)
	}
	slog.DebugContext(ctx, "realtime event published", "channel", channel, "event", event)
	return nil
}

func (p *pusherPublisher) Authorize(userID int64, channel string, params []byte) ([]byte, error) {
	if channel != UserChannel(userID) {
		return nil, ErrChannelForbidden
	}
	resp, err := p.client.AuthorizePrivateChannel(params)
	if err != nil {
		return nil, fmt.Errorf("authorizing channel: %w", err)
	}
	return resp, nil
}

type nopPublisher struct{}

// NewNop drops every event. Used when Pusher is not configured.
func NewNop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(ctx context.Context, channel, event string, _ any) error {
	slog.DebugContext(ctx, "realtime disabled, dropping event", "channel", channel, "event", event)
	return nil
}

func (nopPublisher) Authorize(userID int64, channel string, _ []byte) ([]byte, error) {
	if channel != UserChannel(userID) {
		return nil, ErrChannelForbidden
	}
	return nil, errors.New("realtime is not configured")
}
