// Package realtime delivers notification events to connected websocket
// clients, fanning out across instances through Redis pub/sub.
package realtime

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Publisher publishes notification events into Redis channels so every
// instance's hub can forward them to its local connections.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a Publisher backed by the given Redis client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishUser sends an event payload to a single user's channel.
func (p *Publisher) PublishUser(ctx context.Context, userID uint, payload string) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends an event payload to all connected users.
func (p *Publisher) PublishBroadcast(ctx context.Context, payload string) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Publish(ctx, "events:broadcast", payload).Err()
}

// StartSubscriber subscribes to the per-user pattern and the broadcast
// channel, invoking onMessage for each incoming message until ctx is done.
func (p *Publisher) StartSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if p.rdb == nil {
		return nil
	}
	sub := p.rdb.PSubscribe(ctx, "events:user:*", "events:broadcast")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in event subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "events:user:" + strconv.FormatUint(uint64(userID), 10)
}

// ParseUserChannel extracts the userID from a per-user channel name.
func ParseUserChannel(channel string) (uint, error) {
	var userID uint
	if _, err := fmt.Sscanf(channel, "events:user:%d", &userID); err != nil {
		return 0, fmt.Errorf("invalid event channel %q: %w", channel, err)
	}
	return userID, nil
}
