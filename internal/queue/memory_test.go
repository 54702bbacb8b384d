package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_SendReceiveDelete(t *testing.T) {
	q := NewMemoryQueue()
	require.NoError(t, q.Send(context.Background(), "job-1"))
	require.NoError(t, q.Send(context.Background(), "job-2"))

	messages, err := q.Receive(context.Background(), 10, time.Second)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "job-1", messages[0].Body)
	require.Equal(t, "job-2", messages[1].Body)

	for _, m := range messages {
		require.NoError(t, q.Delete(context.Background(), m.Receipt))
	}
}

func TestMemoryQueue_ReceiveHonorsMax(t *testing.T) {
	q := NewMemoryQueue()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Send(context.Background(), "job"))
	}
	messages, err := q.Receive(context.Background(), 2, time.Second)
	require.NoError(t, err)
	require.Len(t, messages, 2)
}

func TestMemoryQueue_ReceiveTimesOutEmpty(t *testing.T) {
	q := NewMemoryQueue()
	messages, err := q.Receive(context.Background(), 1, 10*time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestMemoryQueue_ReceiveCancelled(t *testing.T) {
	q := NewMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Receive(ctx, 1, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
