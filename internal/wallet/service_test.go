package wallet

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/keylet"
	"github.com/LeJamon/goXRPLwallet/internal/nft"
)

// mockGateway composes the per-concern mocks into the full node surface.
type mockGateway struct {
	mockResolver
	mockNode
	mockStream
}

func TestServiceResyncCoalescesConcurrentTriggers(t *testing.T) {
	gw := &gatedGateway{gate: make(chan struct{})}
	svc, err := NewService(gw, testLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]OwnedToken, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Resync(context.Background(), testAccount)
		}(i)
	}

	// Wait until the first traversal is inside the resolver, then give the
	// second trigger time to join the in-flight fetch before releasing it.
	require.Eventually(t, func() bool { return gw.calls.Load() == 1 },
		time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gw.gate)
	wg.Wait()

	// One user action plus one push event produce exactly one fetch.
	assert.EqualValues(t, 1, gw.calls.Load())
	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
}

// gatedGateway blocks every page fetch until the gate opens and counts
// the fetches that got through.
type gatedGateway struct {
	mockGateway
	gate  chan struct{}
	calls atomic.Int32
}

func (g *gatedGateway) ResolveNFTPage(_ context.Context, key keylet.Key) (*ledger.NFTokenPage, error) {
	g.calls.Add(1)
	<-g.gate
	id := nft.Encode(nft.Token{Flags: nft.FlagTransferable, Sequence: 1})
	return &ledger.NFTokenPage{
		NFTokens: []ledger.NFTokenWrapper{{NFToken: ledger.NFTokenEntry{NFTokenID: id.String()}}},
	}, nil
}

func TestServiceOffersAreNeverNull(t *testing.T) {
	gw := &mockGateway{}
	svc, err := NewService(gw, testLogger())
	require.NoError(t, err)

	set, err := svc.Offers(context.Background(),
		"000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65")
	require.NoError(t, err)
	assert.NotNil(t, set.Sell)
	assert.NotNil(t, set.Buy)
	assert.Empty(t, set.Sell)
	assert.Empty(t, set.Buy)

	cached, ok := svc.LastKnownOffers("000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65")
	assert.True(t, ok)
	assert.Equal(t, set, cached)
}

func TestServiceTokenDecodeAndCache(t *testing.T) {
	svc, err := NewService(&mockGateway{}, testLogger())
	require.NoError(t, err)

	token, err := svc.Token("000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xBCAD02CB), token.Taxon)
	assert.Equal(t, uint32(3429), token.Sequence)

	_, err = svc.Token("too-short")
	assert.ErrorIs(t, err, nft.ErrMalformedTokenID)
}

func TestServiceOwnershipReturnsSameWalker(t *testing.T) {
	svc, err := NewService(&mockGateway{}, testLogger())
	require.NoError(t, err)

	first, err := svc.Ownership(testAccount)
	require.NoError(t, err)
	second, err := svc.Ownership(testAccount)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = svc.Ownership("bogus")
	assert.Error(t, err)
}

func TestServiceSubmitIntentResyncsAccount(t *testing.T) {
	gw := &mockGateway{}
	svc, err := NewService(gw, testLogger())
	require.NoError(t, err)

	signer, err := NewSignerFromSeed("snoPBrXtMeMyMHUVTgbuqAfg1SUTb")
	require.NoError(t, err)

	id := nft.Encode(nft.Token{Flags: nft.FlagBurnable, Sequence: 4})
	conf, err := svc.SubmitIntent(context.Background(), signer, BurnIntent{TokenID: id.String()})
	require.NoError(t, err)
	require.NotNil(t, conf)

	require.Len(t, gw.submissions, 1)
	assert.Equal(t, ledger.TypeNFTokenBurn, gw.submissions[0]["TransactionType"])
	// The confirmed mutation forced an ownership refetch.
	assert.NotEmpty(t, gw.mockResolver.calls)
}

func TestServiceWatchDelegates(t *testing.T) {
	gw := &mockGateway{}
	svc, err := NewService(gw, testLogger())
	require.NoError(t, err)

	handle, err := svc.Watch(context.Background(), []string{testAccount})
	require.NoError(t, err)
	require.Len(t, gw.subscribed, 1)
	require.NoError(t, handle.Unwatch(context.Background()))
	require.Len(t, gw.unsubscribed, 1)
}
