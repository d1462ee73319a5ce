package publisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "dealchecker/pkg/platform/audit"
	"dealchecker/pkg/platform/audit/store/memory"
	"dealchecker/pkg/platform/circuit"
)

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (f *failingStore) Append(context.Context, audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("sink unavailable")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{DealID: "D1", Action: audit.ActionTaskCreated})
	require.NoError(t, err)

	events, err := store.ListByDeal(context.Background(), "D1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionTaskCreated, events[0].Action)
	assert.NotEmpty(t, events[0].ID)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100), WithLogger(quietLogger()))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{DealID: "D1", Action: audit.ActionSystemTaskOpened}))
	}
	require.NoError(t, pub.Close())

	events, err := store.ListByDeal(context.Background(), "D1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull(t *testing.T) {
	block := make(chan struct{})
	store := &blockingStore{release: block}
	pub := NewPublisher(store, WithAsyncBuffer(1), WithLogger(quietLogger()))

	// First event is picked up by the drainer and blocks; second fills the buffer.
	require.NoError(t, pub.Emit(context.Background(), audit.Event{DealID: "D1"}))
	require.Eventually(t, func() bool { return store.started() }, time.Second, 5*time.Millisecond)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{DealID: "D1"}))

	err := pub.Emit(context.Background(), audit.Event{DealID: "D1"})
	assert.ErrorIs(t, err, ErrBufferFull)

	close(block)
	require.NoError(t, pub.Close())
}

func TestPublisher_EmitAfterClose(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"sync", nil},
		{"async", []Option{WithAsyncBuffer(4), WithLogger(quietLogger())}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewInMemoryStore()
			pub := NewPublisher(store, tc.opts...)
			require.NoError(t, pub.Emit(context.Background(), audit.Event{DealID: "D1"}))
			require.NoError(t, pub.Close())
			require.NoError(t, pub.Close(), "close is idempotent")

			assert.NotPanics(t, func() {
				err := pub.Emit(context.Background(), audit.Event{DealID: "D1"})
				assert.ErrorIs(t, err, ErrClosed)
			})
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestPublisher_ConcurrentEmitAndClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1024), WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				err := pub.Emit(context.Background(), audit.Event{DealID: "D1"})
				if err != nil {
					assert.ErrorIs(t, err, ErrClosed)
				}
			}
		}()
	}
	require.NoError(t, pub.Close())
	wg.Wait()
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{DealID: "D1", Timestamp: customTime}))

	events, err := store.ListByDeal(context.Background(), "D1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_SyncFailureWithoutFallback(t *testing.T) {
	pub := NewPublisher(&failingStore{})
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{DealID: "D1"})
	assert.Error(t, err)
}

func TestPublisher_FallbackWhenPrimaryFails(t *testing.T) {
	primary := &failingStore{}
	fallback := memory.NewInMemoryStore()
	breaker := circuit.New("audit", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	pub := NewPublisher(primary, WithFallback(fallback, breaker), WithLogger(quietLogger()))
	defer pub.Close()

	for range 5 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{DealID: "D1"}))
	}

	assert.Equal(t, 5, fallback.Len())
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 2, primary.calls, "open circuit skips the primary")
}

type blockingStore struct {
	mu      sync.Mutex
	begun   bool
	release chan struct{}
}

func (b *blockingStore) Append(context.Context, audit.Event) error {
	b.mu.Lock()
	b.begun = true
	b.mu.Unlock()
	<-b.release
	return nil
}

func (b *blockingStore) started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.begun
}
