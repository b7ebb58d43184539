package announce

import (
	"context"
	"encoding/json"

	"Blackjack/internal/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "bj:announcements"

// envelope is what travels over the pub/sub channel. An empty Target
// means everyone.
type envelope struct {
	Origin  string `json:"origin"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
}

// RedisRelay is a Sink that delivers locally and republishes to the other
// server instances sharing the Redis channel.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	origin  string
	local   Sink
}

func NewRedisRelay(rdb *redis.Client, channel string, local Sink) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
	}
}

func (r *RedisRelay) Broadcast(message string) {
	r.local.Broadcast(message)
	r.publish(envelope{Origin: r.origin, Message: message})
}

func (r *RedisRelay) Whisper(playerID, message string) {
	r.local.Whisper(playerID, message)
	r.publish(envelope{Origin: r.origin, Target: playerID, Message: message})
}

func (r *RedisRelay) publish(env envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		utils.Log.Error("relay encode failed", "err", err)
		return
	}
	if err := r.rdb.Publish(context.Background(), r.channel, payload).Err(); err != nil {
		utils.Log.Error("relay publish failed", "channel", r.channel, "err", err)
	}
}

// Start subscribes to the channel and delivers other instances' messages
// to the local sink until ctx is done. It returns once the subscription
// is confirmed.
func (r *RedisRelay) Start(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				r.deliver(m.Payload)
			}
		}
	}()
	return nil
}

func (r *RedisRelay) deliver(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		utils.Log.Warn("relay dropped malformed message", "err", err)
		return
	}
	if env.Origin == r.origin {
		return
	}
	if env.Target == "" {
		r.local.Broadcast(env.Message)
		return
	}
	r.local.Whisper(env.Target, env.Message)
}
