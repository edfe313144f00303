package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

type mockStream struct {
	mu           sync.Mutex
	subscribed   [][]string
	unsubscribed [][]string
	err          error
}

func (m *mockStream) SubscribeAccounts(_ context.Context, accounts []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.subscribed = append(m.subscribed, accounts)
	return nil
}

func (m *mockStream) UnsubscribeAccounts(_ context.Context, accounts []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.unsubscribed = append(m.unsubscribed, accounts)
	return nil
}

func TestSubscriberWatchAndUnwatch(t *testing.T) {
	stream := &mockStream{}
	sub := NewSubscriber(stream, func(string) {}, testLogger())

	handle, err := sub.Watch(context.Background(), []string{"rA", "rB"})
	require.NoError(t, err)
	require.Len(t, stream.subscribed, 1)
	assert.ElementsMatch(t, []string{"rA", "rB"}, stream.subscribed[0])
	assert.True(t, sub.Watched("rA"))

	require.NoError(t, handle.Unwatch(context.Background()))
	require.Len(t, stream.unsubscribed, 1)
	assert.ElementsMatch(t, []string{"rA", "rB"}, stream.unsubscribed[0])
	assert.False(t, sub.Watched("rA"))

	// Releasing the same handle twice does nothing further.
	require.NoError(t, handle.Unwatch(context.Background()))
	assert.Len(t, stream.unsubscribed, 1)
}

func TestSubscriberRefcountsSharedAccounts(t *testing.T) {
	stream := &mockStream{}
	sub := NewSubscriber(stream, func(string) {}, testLogger())

	first, err := sub.Watch(context.Background(), []string{"rA"})
	require.NoError(t, err)
	second, err := sub.Watch(context.Background(), []string{"rA", "rB"})
	require.NoError(t, err)

	// rA was already on the stream; only rB is newly subscribed.
	require.Len(t, stream.subscribed, 2)
	assert.Equal(t, []string{"rB"}, stream.subscribed[1])

	require.NoError(t, first.Unwatch(context.Background()))
	assert.Empty(t, stream.unsubscribed)
	assert.True(t, sub.Watched("rA"))

	require.NoError(t, second.Unwatch(context.Background()))
	require.Len(t, stream.unsubscribed, 1)
	assert.ElementsMatch(t, []string{"rA", "rB"}, stream.unsubscribed[0])
}

func TestSubscriberUnwatchNeverWatchedIsNoOp(t *testing.T) {
	stream := &mockStream{}
	sub := NewSubscriber(stream, func(string) {}, testLogger())

	require.NoError(t, sub.unwatch(context.Background(), []string{"rZ"}))
	assert.Empty(t, stream.unsubscribed)
}

func TestSubscriberWatchFailureRollsBack(t *testing.T) {
	stream := &mockStream{err: errors.New("websocket: close 1006")}
	sub := NewSubscriber(stream, func(string) {}, testLogger())

	_, err := sub.Watch(context.Background(), []string{"rA"})
	require.Error(t, err)
	assert.False(t, sub.Watched("rA"))
}

func TestSubscriberRunTriggersResync(t *testing.T) {
	stream := &mockStream{}
	var mu sync.Mutex
	var resynced []string
	sub := NewSubscriber(stream, func(account string) {
		mu.Lock()
		resynced = append(resynced, account)
		mu.Unlock()
	}, testLogger())

	_, err := sub.Watch(context.Background(), []string{"rA"})
	require.NoError(t, err)

	events := make(chan ledger.TransactionEvent, 4)
	events <- ledger.TransactionEvent{Type: "transaction", Account: "rA", Validated: true, Hash: "H1"}
	events <- ledger.TransactionEvent{Type: "transaction", Account: "rUnwatched", Validated: true}
	events <- ledger.TransactionEvent{Type: "transaction", Account: "rA", Validated: false}
	events <- ledger.TransactionEvent{Type: "transaction", Account: "rA", Validated: true, Hash: "H2"}
	close(events)

	require.NoError(t, sub.Run(context.Background(), events))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"rA", "rA"}, resynced)
}

func TestSubscriberRunStopsOnContext(t *testing.T) {
	sub := NewSubscriber(&mockStream{}, func(string) {}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := sub.Run(ctx, make(chan ledger.TransactionEvent))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
