package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	addresscodec "github.com/LeJamon/goXRPLwallet/internal/codec/address-codec"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/keylet"
	"github.com/LeJamon/goXRPLwallet/internal/nft"
)

// OwnedToken is one token from an account's ownership index, with its ID
// fields already unpacked.
type OwnedToken struct {
	TokenID nft.TokenID
	Fields  nft.Token
	URI     string
}

// Walker enumerates the NFTokens an account owns by chasing the
// backward-linked page chain, newest page first.
//
// Each Next call fetches exactly one page; the caller decides when to
// continue. The walker never patches a held list after a ledger mutation:
// Restart discards everything and re-anchors.
type Walker struct {
	log       logrus.FieldLogger
	resolver  PageResolver
	account   string
	accountID [20]byte

	mu      sync.Mutex
	gen     uint64
	loading bool
	started bool
	done    bool
	corrupt bool
	next    keylet.Key
	seen    map[keylet.Key]struct{}
	tokens  []OwnedToken
}

// NewWalker creates a walker for one account's ownership index.
func NewWalker(resolver PageResolver, account string, log logrus.FieldLogger) (*Walker, error) {
	accountID, err := addresscodec.DecodeClassicAddressToAccountID(account)
	if err != nil {
		return nil, err
	}
	return &Walker{
		log:       log.WithField("account", account),
		resolver:  resolver,
		account:   account,
		accountID: accountID,
		seen:      make(map[keylet.Key]struct{}),
	}, nil
}

// Account returns the walked account's address.
func (w *Walker) Account() string { return w.account }

// HasMore reports whether another Next call can yield entries.
func (w *Walker) HasMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.done && !w.corrupt
}

// Tokens returns a copy of everything accumulated so far, in traversal
// order (newest page first).
func (w *Walker) Tokens() []OwnedToken {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]OwnedToken, len(w.tokens))
	copy(out, w.tokens)
	return out
}

// Restart discards accumulated state and re-anchors at the synthetic
// maximum key. Used when a confirmation event invalidates the held list
// mid-traversal.
func (w *Walker) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.loading = false
	w.started = false
	w.done = false
	w.corrupt = false
	w.seen = make(map[keylet.Key]struct{})
	w.tokens = nil
}

// Next fetches one page and returns its entries.
//
// It returns (nil, nil) when the chain is exhausted, and also when a fetch
// is already in flight: overlapping load-more calls are a caller error and
// are ignored rather than doubled up. A Restart during the fetch discards
// the fetched page. Transport failures surface as ErrIndexUnavailable and
// keep accumulated entries intact; a repeated page key is terminal
// ErrCorruptIndex.
func (w *Walker) Next(ctx context.Context) ([]OwnedToken, error) {
	w.mu.Lock()
	if w.corrupt {
		w.mu.Unlock()
		return nil, ErrCorruptIndex
	}
	if w.done || w.loading {
		w.mu.Unlock()
		return nil, nil
	}
	w.loading = true
	gen := w.gen
	key := keylet.NFTokenPageMax(w.accountID)
	if w.started {
		key = w.next
	}
	w.mu.Unlock()

	page, err := w.resolver.ResolveNFTPage(ctx, key)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		// Restart ran while the fetch was in flight. The page belongs to
		// the discarded traversal; leave the fresh one untouched.
		return nil, nil
	}
	w.loading = false

	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %v", ErrIndexUnavailable, w.account, err)
	}

	w.started = true
	if page == nil {
		// No page covers the key: either the account owns nothing or the
		// chain ended exactly at this boundary.
		w.done = true
		return nil, nil
	}

	pageKey, err := w.pageKey(page, key)
	if err != nil {
		w.corrupt = true
		return nil, err
	}
	if _, revisit := w.seen[pageKey]; revisit {
		w.corrupt = true
		return nil, fmt.Errorf("%w: account %s: page %x revisited", ErrCorruptIndex, w.account, pageKey)
	}
	w.seen[pageKey] = struct{}{}

	added, err := w.appendEntries(page)
	if err != nil {
		w.corrupt = true
		return nil, err
	}

	if page.PreviousPageMin == "" {
		w.done = true
	} else {
		next, err := parsePageKey(page.PreviousPageMin)
		if err != nil || !next.OwnedBy(w.accountID) {
			w.corrupt = true
			return nil, fmt.Errorf("%w: account %s: bad continuation key %q", ErrCorruptIndex, w.account, page.PreviousPageMin)
		}
		if _, revisit := w.seen[next]; revisit {
			w.corrupt = true
			return nil, fmt.Errorf("%w: account %s: continuation revisits page %x", ErrCorruptIndex, w.account, next)
		}
		w.next = next
	}

	w.log.WithFields(logrus.Fields{
		"page":    fmt.Sprintf("%x", pageKey[:]),
		"entries": len(added),
		"more":    !w.done,
	}).Debug("ownership page loaded")

	return added, nil
}

// Drain walks the remaining chain to the end and returns the full list.
func (w *Walker) Drain(ctx context.Context) ([]OwnedToken, error) {
	for w.HasMore() {
		if _, err := w.Next(ctx); err != nil {
			return nil, err
		}
	}
	return w.Tokens(), nil
}

func (w *Walker) pageKey(page *ledger.NFTokenPage, requested keylet.Key) (keylet.Key, error) {
	if page.Index == "" {
		return requested, nil
	}
	key, err := parsePageKey(page.Index)
	if err != nil {
		return keylet.Key{}, fmt.Errorf("%w: account %s: bad page index %q", ErrCorruptIndex, w.account, page.Index)
	}
	return key, nil
}

func (w *Walker) appendEntries(page *ledger.NFTokenPage) ([]OwnedToken, error) {
	added := make([]OwnedToken, 0, len(page.NFTokens))
	for _, wrapper := range page.NFTokens {
		tokenID, err := nft.ParseTokenID(wrapper.NFToken.NFTokenID)
		if err != nil {
			return nil, fmt.Errorf("%w: account %s: token %q: %v",
				ErrCorruptIndex, w.account, wrapper.NFToken.NFTokenID, err)
		}
		added = append(added, OwnedToken{
			TokenID: tokenID,
			Fields:  nft.Decode(tokenID),
			URI:     nft.DecodeURI(wrapper.NFToken.URI),
		})
	}
	w.tokens = append(w.tokens, added...)
	return added, nil
}

func parsePageKey(s string) (keylet.Key, error) {
	var key keylet.Key
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(key) {
		return key, fmt.Errorf("invalid page key %q", s)
	}
	copy(key[:], raw)
	return key, nil
}
