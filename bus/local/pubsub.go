package local

import (
	"context"
	"sync"
)

// Message is a delivered pub/sub message.
type Message struct {
	Channel string
	Payload string
}

type subscriber struct {
	ch       chan *Message
	channels map[string]struct{}
}

// PubSub is an in-process publish/subscribe bus. Slow subscribers drop
// messages rather than block the publisher.
type PubSub struct {
	mu      sync.RWMutex
	subs    map[*subscriber]struct{}
	bufSize int
}

func NewPubSub(bufSize int) *PubSub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &PubSub{
		subs:    make(map[*subscriber]struct{}),
		bufSize: bufSize,
	}
}

func (p *PubSub) Publish(_ context.Context, channel, message string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for sub := range p.subs {
		if _, ok := sub.channels[channel]; !ok {
			continue
		}
		select {
		case sub.ch <- &Message{Channel: channel, Payload: message}:
		default: // subscriber is behind, drop
		}
	}
	return nil
}

// Subscribe returns a receive channel for the given channels and a cancel
// func that closes it.
func (p *PubSub) Subscribe(_ context.Context, channels ...string) (<-chan *Message, func(), error) {
	sub := &subscriber{
		ch:       make(chan *Message, p.bufSize),
		channels: make(map[string]struct{}, len(channels)),
	}
	for _, c := range channels {
		sub.channels[c] = struct{}{}
	}

	p.mu.Lock()
	p.subs[sub] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, sub)
			p.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel, nil
}
