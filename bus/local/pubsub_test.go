package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribedChannelOnly(t *testing.T) {
	ps := NewPubSub(8)
	ch, cancel, err := ps.Subscribe(context.Background(), "a")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(context.Background(), "a", "hello"))
	require.NoError(t, ps.Publish(context.Background(), "b", "ignored"))

	select {
	case msg := <-ch:
		assert.Equal(t, "a", msg.Channel)
		assert.Equal(t, "hello", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %+v", msg)
	default:
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	ps := NewPubSub(1)
	_, cancel, err := ps.Subscribe(context.Background(), "a")
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = ps.Publish(context.Background(), "a", "x")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestCancelClosesChannelAndIsIdempotent(t *testing.T) {
	ps := NewPubSub(4)
	ch, cancel, err := ps.Subscribe(context.Background(), "a")
	require.NoError(t, err)

	cancel()
	cancel() // second call must not panic

	_, open := <-ch
	assert.False(t, open)
	require.NoError(t, ps.Publish(context.Background(), "a", "after-cancel"))
}
