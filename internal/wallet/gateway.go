package wallet

import (
	"context"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/keylet"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/rpcclient"
)

var _ Gateway = (*rpcclient.Client)(nil)

// The wallet core performs no I/O of its own: every component receives an
// explicit connection capability at construction. The interfaces below are
// the full RPC surface the core consumes; rpcclient.Client satisfies all
// of them.

// PageResolver reads NFTokenPage objects from the validated ledger.
// A nil page with a nil error means no page covers the key.
type PageResolver interface {
	ResolveNFTPage(ctx context.Context, key keylet.Key) (*ledger.NFTokenPage, error)
}

// OfferQuerier lists the standing offers of one kind for a token.
type OfferQuerier interface {
	NFTOffers(ctx context.Context, tokenID string, sell bool) ([]ledger.Offer, error)
}

// Submitter covers transaction autofill, submission and confirmation
// lookup.
type Submitter interface {
	AccountSequence(ctx context.Context, account string) (uint32, error)
	CurrentLedgerIndex(ctx context.Context) (uint32, error)
	OpenLedgerFee(ctx context.Context) (string, error)
	Submit(ctx context.Context, txBlob string) (*ledger.SubmitResult, error)
	Tx(ctx context.Context, hash string) (*ledger.TxConfirmation, error)
}

// Stream manages account subscription membership on the connection.
type Stream interface {
	SubscribeAccounts(ctx context.Context, accounts []string) error
	UnsubscribeAccounts(ctx context.Context, accounts []string) error
}

// Gateway is the complete node surface the wallet core depends on.
type Gateway interface {
	PageResolver
	OfferQuerier
	Submitter
	Stream
}
