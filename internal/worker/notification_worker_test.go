package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"event-reservations/internal/model"
	"event-reservations/internal/queue"
	"event-reservations/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu        sync.Mutex
	delivered []string
	failFirst bool
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failFirst {
		d.failFirst = false
		return errors.New("smtp down")
	}
	d.delivered = append(d.delivered, n.ID)
	return nil
}

func (d *recordingDispatcher) deliveredIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.delivered...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNotificationWorker_Dispatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewChannelNotificationQueue(8)
	dispatcher := &recordingDispatcher{}
	w := worker.NewNotificationWorker(q, dispatcher)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.Publish(ctx, &model.Notification{ID: "n-1", Email: "a@example.com"}))
	require.NoError(t, q.Publish(ctx, &model.Notification{ID: "n-2", Email: "b@example.com"}))

	waitFor(t, func() bool { return len(dispatcher.deliveredIDs()) == 2 })
	assert.ElementsMatch(t, []string{"n-1", "n-2"}, dispatcher.deliveredIDs())
}

func TestNotificationWorker_RetriesOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewChannelNotificationQueue(8)
	dispatcher := &recordingDispatcher{failFirst: true}
	w := worker.NewNotificationWorker(q, dispatcher)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.Publish(ctx, &model.Notification{ID: "n-1", Email: "a@example.com"}))

	// The first attempt fails, the nack requeues, the retry lands.
	waitFor(t, func() bool { return len(dispatcher.deliveredIDs()) == 1 })
	assert.Equal(t, []string{"n-1"}, dispatcher.deliveredIDs())
}
