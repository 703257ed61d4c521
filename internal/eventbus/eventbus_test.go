package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type pingEvent struct{ n int }

type otherEvent struct{}

func TestSubscribeAndPublish(t *testing.T) {
	Use(New())
	defer Use(nil)

	var got []int
	unsubscribe := Subscribe(func(ctx context.Context, e pingEvent) {
		got = append(got, e.n)
	})

	Publish(context.Background(), pingEvent{n: 1})
	Publish(context.Background(), otherEvent{})
	Publish(context.Background(), pingEvent{n: 2})

	require.Equal(t, []int{1, 2}, got)

	unsubscribe()
	Publish(context.Background(), pingEvent{n: 3})
	require.Equal(t, []int{1, 2}, got)
}

func TestMultipleSubscribers(t *testing.T) {
	Use(New())
	defer Use(nil)

	first, second := 0, 0
	Subscribe(func(ctx context.Context, e pingEvent) { first++ })
	Subscribe(func(ctx context.Context, e pingEvent) { second++ })

	Publish(context.Background(), pingEvent{})

	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestPublishWithoutBus(t *testing.T) {
	Use(nil)

	require.NotPanics(t, func() {
		Publish(context.Background(), pingEvent{})
	})
	unsubscribe := Subscribe(func(ctx context.Context, e pingEvent) {})
	require.NotPanics(t, unsubscribe)
}
