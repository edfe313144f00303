package wallet

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

// Subscriber keeps the node's account stream membership in step with the
// watched account set and turns confirmation events into resync triggers.
// It never parses event payloads into deltas: every event for a watched
// account refetches that account's state wholesale.
type Subscriber struct {
	log     logrus.FieldLogger
	stream  Stream
	onEvent func(account string)

	mu   sync.Mutex
	refs map[string]int
}

// NewSubscriber creates a subscriber over the given stream capability.
// onEvent runs on the Run goroutine for each validated transaction event
// touching a watched account.
func NewSubscriber(stream Stream, onEvent func(account string), log logrus.FieldLogger) *Subscriber {
	return &Subscriber{
		log:     log,
		stream:  stream,
		onEvent: onEvent,
		refs:    make(map[string]int),
	}
}

// Subscription is one Watch call's handle. Unwatching it releases exactly
// the accounts that call watched; overlapping subscriptions keep shared
// accounts alive through refcounts.
type Subscription struct {
	sub      *Subscriber
	accounts []string
	once     sync.Once
}

// Accounts returns the subscription's account set.
func (s *Subscription) Accounts() []string {
	out := make([]string, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Unwatch releases the subscription. Safe to call more than once.
func (s *Subscription) Unwatch(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		err = s.sub.unwatch(ctx, s.accounts)
	})
	return err
}

// Watch subscribes the accounts not already on the stream and returns a
// handle releasing them. The subscribe request carries only the accounts
// actually being added, so the node's view matches the refcounts.
func (s *Subscriber) Watch(ctx context.Context, accounts []string) (*Subscription, error) {
	s.mu.Lock()
	var added []string
	for _, account := range dedupe(accounts) {
		if s.refs[account] == 0 {
			added = append(added, account)
		}
		s.refs[account]++
	}
	s.mu.Unlock()

	if len(added) > 0 {
		if err := s.stream.SubscribeAccounts(ctx, added); err != nil {
			s.mu.Lock()
			for _, account := range dedupe(accounts) {
				if s.refs[account]--; s.refs[account] <= 0 {
					delete(s.refs, account)
				}
			}
			s.mu.Unlock()
			return nil, err
		}
		s.log.WithField("accounts", added).Debug("accounts subscribed")
	}

	return &Subscription{sub: s, accounts: dedupe(accounts)}, nil
}

// unwatch decrements refcounts and unsubscribes the accounts that reach
// zero. Accounts that were never watched are skipped, not an error.
func (s *Subscriber) unwatch(ctx context.Context, accounts []string) error {
	s.mu.Lock()
	var removed []string
	for _, account := range dedupe(accounts) {
		if _, watched := s.refs[account]; !watched {
			continue
		}
		if s.refs[account]--; s.refs[account] <= 0 {
			delete(s.refs, account)
			removed = append(removed, account)
		}
	}
	s.mu.Unlock()

	if len(removed) == 0 {
		return nil
	}
	if err := s.stream.UnsubscribeAccounts(ctx, removed); err != nil {
		return err
	}
	s.log.WithField("accounts", removed).Debug("accounts unsubscribed")
	return nil
}

// Watched reports whether the account is currently on the stream.
func (s *Subscriber) Watched(account string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs[account] > 0
}

// Run consumes transaction events until the stream closes or the context
// ends. Reconnecting a dropped stream is the connection owner's problem;
// Run just returns.
func (s *Subscriber) Run(ctx context.Context, events <-chan ledger.TransactionEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !event.Validated || event.Account == "" {
				continue
			}
			if !s.Watched(event.Account) {
				continue
			}
			s.log.WithFields(logrus.Fields{
				"account": event.Account,
				"hash":    event.Hash,
			}).Debug("confirmation event")
			s.onEvent(event.Account)
		}
	}
}

func dedupe(accounts []string) []string {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if _, dup := seen[account]; dup {
			continue
		}
		seen[account] = struct{}{}
		out = append(out, account)
	}
	return out
}
