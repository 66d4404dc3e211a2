package bus

import (
	"context"

	buslocal "github.com/overdrive-game/hordeai/bus/local"
	busredis "github.com/overdrive-game/hordeai/bus/redis"
)

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub is the event fan-out used to deliver AI events to collaborators
// (renderer, audio, overlays). In-process by default; Redis-backed when an
// address is configured so collaborators can live out of process.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

// Config holds settings for both backends.
type Config struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	LocalBuf      int    `mapstructure:"local_buf"`
}

// New returns a PubSub backed by Redis if RedisAddr is set, otherwise an
// in-process local bus.
func New(cfg Config) (PubSub, error) {
	if cfg.RedisAddr != "" {
		rps, err := busredis.NewPubSub(busredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &redisAdapter{ps: rps}, nil
	}
	buf := cfg.LocalBuf
	if buf <= 0 {
		buf = 256
	}
	return &localAdapter{ps: buslocal.NewPubSub(buf)}, nil
}

// ---- adapters bridging sub-package message types to bus.Message ----

type localAdapter struct {
	ps *buslocal.PubSub
}

func (a *localAdapter) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *localAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for msg := range in {
			out <- &Message{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	return out, cancel, nil
}

type redisAdapter struct {
	ps *busredis.PubSubClient
}

func (a *redisAdapter) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *redisAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	in, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for msg := range in {
			out <- &Message{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	return out, cancel, nil
}
