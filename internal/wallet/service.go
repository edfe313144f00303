package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/nft"
)

const (
	tokenCacheSize = 1024
	offerCacheSize = 256

	// eventResyncTimeout bounds the refetch a push event triggers.
	eventResyncTimeout = 30 * time.Second
)

// Service is the wallet core's external surface: ownership walking, offer
// queries, intent submission and live reconciliation over one injected
// node connection. It owns no persistent state; the caches are advisory
// and every resync overwrites them.
type Service struct {
	log  logrus.FieldLogger
	node Gateway

	resyncs    coalescer
	subscriber *Subscriber

	tokenCache *lru.Cache[string, nft.Token]
	offerCache *lru.Cache[string, ledger.OfferSet]

	mu      sync.Mutex
	walkers map[string]*Walker
}

// NewService creates a service over the given node connection.
func NewService(node Gateway, log logrus.FieldLogger) (*Service, error) {
	tokenCache, err := lru.New[string, nft.Token](tokenCacheSize)
	if err != nil {
		return nil, err
	}
	offerCache, err := lru.New[string, ledger.OfferSet](offerCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Service{
		log:        log,
		node:       node,
		tokenCache: tokenCache,
		offerCache: offerCache,
		walkers:    make(map[string]*Walker),
	}
	s.subscriber = NewSubscriber(node, s.handleEvent, log)
	return s, nil
}

// Ownership returns the account's walker, creating it on first use. The
// walker is the single owner of that account's ownership list.
func (s *Service) Ownership(account string) (*Walker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.walkers[account]; ok {
		return w, nil
	}
	w, err := NewWalker(s.node, account, s.log)
	if err != nil {
		return nil, err
	}
	s.walkers[account] = w
	return w, nil
}

// Resync refetches the account's full ownership list from scratch.
// Concurrent calls for the same account share one traversal; different
// accounts proceed independently.
func (s *Service) Resync(ctx context.Context, account string) ([]OwnedToken, error) {
	w, err := s.Ownership(account)
	if err != nil {
		return nil, err
	}
	tokens, shared, err := s.resyncs.do(account, func() ([]OwnedToken, error) {
		w.Restart()
		return w.Drain(ctx)
	})
	if err != nil {
		return nil, err
	}
	if !shared {
		for _, token := range tokens {
			s.tokenCache.Add(token.TokenID.String(), token.Fields)
		}
	}
	return tokens, nil
}

// Offers lists the standing sell and buy offers for a token. Both slices
// are non-nil; a token nobody bids on yields empty lists, never null.
func (s *Service) Offers(ctx context.Context, tokenID string) (ledger.OfferSet, error) {
	set := ledger.EmptyOfferSet()
	sell, err := s.node.NFTOffers(ctx, tokenID, true)
	if err != nil {
		return set, fmt.Errorf("wallet: sell offers for %s: %w", tokenID, err)
	}
	buy, err := s.node.NFTOffers(ctx, tokenID, false)
	if err != nil {
		return set, fmt.Errorf("wallet: buy offers for %s: %w", tokenID, err)
	}
	if sell != nil {
		set.Sell = sell
	}
	if buy != nil {
		set.Buy = buy
	}
	s.offerCache.Add(tokenID, set)
	return set, nil
}

// LastKnownOffers returns the cached offer set from the most recent
// query, if any. Advisory only; the cache holds whatever the last Offers
// call saw.
func (s *Service) LastKnownOffers(tokenID string) (ledger.OfferSet, bool) {
	return s.offerCache.Get(tokenID)
}

// Token decodes a token ID, serving repeated lookups from the cache.
func (s *Service) Token(tokenID string) (nft.Token, error) {
	if token, ok := s.tokenCache.Get(tokenID); ok {
		return token, nil
	}
	id, err := nft.ParseTokenID(tokenID)
	if err != nil {
		return nft.Token{}, err
	}
	token := nft.Decode(id)
	s.tokenCache.Add(tokenID, token)
	return token, nil
}

// Lifecycle returns a mutation executor for the given signer over this
// service's connection.
func (s *Service) Lifecycle(signer *Signer) *Lifecycle {
	return NewLifecycle(s.node, signer, s.log)
}

// Intent is one user-level mutation. Submission always runs the full
// build, sign, submit, confirm flow; nothing advances optimistically.
type Intent interface {
	execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error)
}

func (i MintIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.Mint(ctx, i)
}

func (i SellOfferIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.CreateSellOffer(ctx, i)
}

func (i BuyOfferIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.CreateBuyOffer(ctx, i)
}

func (i AcceptOfferIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.AcceptOffer(ctx, i)
}

// CancelOffersIntent cancels a batch of offers in one transaction.
type CancelOffersIntent struct {
	OfferIDs []string
}

func (i CancelOffersIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.CancelOffers(ctx, i.OfferIDs)
}

func (i BurnIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.Burn(ctx, i)
}

func (i PaymentIntent) execute(ctx context.Context, l *Lifecycle) (*ledger.TxConfirmation, error) {
	return l.Send(ctx, i)
}

// SubmitIntent executes the intent with the signer's key and, on success,
// resyncs the signer's account. A *PartialCleanupError still counts as
// success for the resync: the transfer happened.
func (s *Service) SubmitIntent(ctx context.Context, signer *Signer, intent Intent) (*ledger.TxConfirmation, error) {
	conf, err := intent.execute(ctx, s.Lifecycle(signer))
	if conf != nil {
		if _, resyncErr := s.Resync(ctx, signer.Address()); resyncErr != nil {
			s.log.WithError(resyncErr).WithField("account", signer.Address()).
				Warn("post-submit resync failed")
		}
	}
	return conf, err
}

// Watch subscribes the accounts to the confirmation stream.
func (s *Service) Watch(ctx context.Context, accounts []string) (*Subscription, error) {
	return s.subscriber.Watch(ctx, accounts)
}

// Run pumps transaction events into resyncs until the stream closes.
func (s *Service) Run(ctx context.Context, events <-chan ledger.TransactionEvent) error {
	return s.subscriber.Run(ctx, events)
}

// handleEvent refetches an account touched by a confirmation event. The
// fetch runs off the event loop; coalescing absorbs event bursts.
func (s *Service) handleEvent(account string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventResyncTimeout)
		defer cancel()
		if _, err := s.Resync(ctx, account); err != nil {
			s.log.WithError(err).WithField("account", account).Warn("event resync failed")
		}
	}()
}
