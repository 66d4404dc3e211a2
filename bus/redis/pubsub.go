package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Message is a delivered pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSubClient is a Redis-backed publish/subscribe client.
type PubSubClient struct {
	client *goredis.Client
}

// NewPubSub connects and verifies the Redis endpoint.
func NewPubSub(cfg Config) (*PubSubClient, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &PubSubClient{client: client}, nil
}

func (p *PubSubClient) Publish(ctx context.Context, channel, message string) error {
	return p.client.Publish(ctx, channel, message).Err()
}

// Subscribe returns a receive channel for the given channels and a cancel
// func that tears the subscription down.
func (p *PubSubClient) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	sub := p.client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			out <- &Message{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}

// Close releases the underlying client.
func (p *PubSubClient) Close() error {
	return p.client.Close()
}
