package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	addresscodec "github.com/LeJamon/goXRPLwallet/internal/codec/address-codec"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/nft"
)

const (
	// ledgerWindow is how many ledgers past the current index a submitted
	// transaction stays valid. Beyond LastLedgerSequence the network can
	// never include it, so confirmation polling has a hard stop.
	ledgerWindow = 20

	defaultConfirmPoll = 2 * time.Second
)

// OfferState classifies the standing offers for one token as seen by one
// account. It is derived from query results only, never advanced
// optimistically on submission.
type OfferState int

const (
	NoOffers OfferState = iota
	SellOffered
	BuyOffered
	SellAndBuyOffered
)

func (s OfferState) String() string {
	switch s {
	case SellOffered:
		return "sell-offered"
	case BuyOffered:
		return "buy-offered"
	case SellAndBuyOffered:
		return "sell-and-buy-offered"
	default:
		return "no-offers"
	}
}

// StateOf derives the offer state from a queried offer set.
func StateOf(set ledger.OfferSet) OfferState {
	switch {
	case len(set.Sell) > 0 && len(set.Buy) > 0:
		return SellAndBuyOffered
	case len(set.Sell) > 0:
		return SellOffered
	case len(set.Buy) > 0:
		return BuyOffered
	default:
		return NoOffers
	}
}

// LifecycleNode is the node surface mutations need: submission plus the
// offer listing used for post-accept cleanup.
type LifecycleNode interface {
	Submitter
	OfferQuerier
}

// Lifecycle executes token and offer mutations for one signing account.
// Every mutation follows the same flow: build unsigned, autofill, sign
// locally, submit, await validation. Nothing is retried automatically; a
// rejection is reported with the ledger's code and the caller decides.
type Lifecycle struct {
	log    logrus.FieldLogger
	node   LifecycleNode
	signer *Signer

	confirmPoll time.Duration
}

// NewLifecycle creates a lifecycle executor bound to one signer.
func NewLifecycle(node LifecycleNode, signer *Signer, log logrus.FieldLogger) *Lifecycle {
	return &Lifecycle{
		log:         log.WithField("account", signer.Address()),
		node:        node,
		signer:      signer,
		confirmPoll: defaultConfirmPoll,
	}
}

// Account returns the signing account's address.
func (l *Lifecycle) Account() string { return l.signer.Address() }

// MintIntent mints a new token for the signing account.
type MintIntent struct {
	Taxon       uint32
	URI         string
	TransferFee *uint16
	Flags       uint32
}

// Mint submits an NFTokenMint and waits for validation. The URI is
// hex-encoded for the wire; TransferFee requires the transferable flag.
func (l *Lifecycle) Mint(ctx context.Context, intent MintIntent) (*ledger.TxConfirmation, error) {
	tx := ledger.NewNFTokenMint(l.signer.Address(), intent.Taxon)
	if intent.URI != "" {
		tx.URI = nft.EncodeURI(intent.URI)
	}
	tx.TransferFee = intent.TransferFee
	if intent.Flags != 0 {
		flags := intent.Flags
		tx.Flags = &flags
	}
	return l.submitAndConfirm(ctx, "mint", tx)
}

// SellOfferIntent offers one of the signing account's tokens for sale.
type SellOfferIntent struct {
	TokenID     string
	Amount      ledger.Amount
	Destination string
	Expiration  *uint32
}

// CreateSellOffer submits an NFTokenCreateOffer with the sell flag.
func (l *Lifecycle) CreateSellOffer(ctx context.Context, intent SellOfferIntent) (*ledger.TxConfirmation, error) {
	tx := ledger.NewNFTokenCreateOffer(l.signer.Address(), intent.TokenID, intent.Amount)
	flags := ledger.CreateOfferFlagSellNFToken
	tx.Flags = &flags
	tx.Destination = intent.Destination
	tx.Expiration = intent.Expiration
	return l.submitAndConfirm(ctx, "create-sell-offer", tx)
}

// BuyOfferIntent bids on a token owned by another account.
type BuyOfferIntent struct {
	TokenID    string
	Owner      string
	Amount     ledger.Amount
	Expiration *uint32
}

// CreateBuyOffer submits an NFTokenCreateOffer for a token the signing
// account does not own.
func (l *Lifecycle) CreateBuyOffer(ctx context.Context, intent BuyOfferIntent) (*ledger.TxConfirmation, error) {
	tx := ledger.NewNFTokenCreateOffer(l.signer.Address(), intent.TokenID, intent.Amount)
	tx.Owner = intent.Owner
	tx.Expiration = intent.Expiration
	return l.submitAndConfirm(ctx, "create-buy-offer", tx)
}

// AcceptOfferIntent accepts one standing offer for a token.
type AcceptOfferIntent struct {
	TokenID string
	OfferID string
	Sell    bool
}

// AcceptOffer accepts the chosen offer and then, best effort, cancels
// every other standing offer for the token in a single follow-up
// transaction. The accept is the operation of record: if the cleanup
// fails the returned confirmation is still valid and the error is a
// *PartialCleanupError, the stale offers surface again on the next sync.
// The two steps cannot be atomic, the ledger has no multi-object
// transaction spanning independently owned offers.
func (l *Lifecycle) AcceptOffer(ctx context.Context, intent AcceptOfferIntent) (*ledger.TxConfirmation, error) {
	tx := ledger.NewNFTokenAcceptOffer(l.signer.Address(), intent.OfferID, intent.Sell)
	conf, err := l.submitAndConfirm(ctx, "accept-offer", tx)
	if err != nil {
		return nil, err
	}

	remaining, err := l.remainingOffers(ctx, intent.TokenID, intent.OfferID)
	if err != nil {
		return conf, &PartialCleanupError{AcceptHash: conf.Hash, Err: err}
	}
	if len(remaining) == 0 {
		return conf, nil
	}

	l.log.WithFields(logrus.Fields{
		"token":  intent.TokenID,
		"offers": len(remaining),
	}).Info("cancelling remaining offers after accept")

	cancel := ledger.NewNFTokenCancelOffer(l.signer.Address(), remaining)
	if _, err := l.submitAndConfirm(ctx, "post-accept-cancel", cancel); err != nil {
		return conf, &PartialCleanupError{AcceptHash: conf.Hash, Err: err}
	}
	return conf, nil
}

// remainingOffers lists every standing offer for the token except the one
// just accepted.
func (l *Lifecycle) remainingOffers(ctx context.Context, tokenID, accepted string) ([]string, error) {
	var ids []string
	for _, sell := range []bool{true, false} {
		offers, err := l.node.NFTOffers(ctx, tokenID, sell)
		if err != nil {
			return nil, err
		}
		for _, offer := range offers {
			if offer.OfferID != accepted {
				ids = append(ids, offer.OfferID)
			}
		}
	}
	return ids, nil
}

// CancelOffers cancels the listed offers in one transaction. The batch is
// all-or-nothing on the ledger; a rejection fails the whole set.
func (l *Lifecycle) CancelOffers(ctx context.Context, offerIDs []string) (*ledger.TxConfirmation, error) {
	tx := ledger.NewNFTokenCancelOffer(l.signer.Address(), offerIDs)
	return l.submitAndConfirm(ctx, "cancel-offers", tx)
}

// BurnIntent removes a token from the ledger.
type BurnIntent struct {
	TokenID string
	// Owner is set when the issuer burns a token held by another account.
	Owner string
}

// Burn submits an NFTokenBurn. The burnable precondition is checked
// client-side from the token ID's decoded flags so a doomed transaction
// never reaches the network: a token without the burnable flag can only
// be burned by its issuer.
func (l *Lifecycle) Burn(ctx context.Context, intent BurnIntent) (*ledger.TxConfirmation, error) {
	tokenID, err := nft.ParseTokenID(intent.TokenID)
	if err != nil {
		return nil, err
	}
	token := nft.Decode(tokenID)
	if !token.IsBurnable() && !l.isIssuer(token) {
		return nil, fmt.Errorf("%w: token %s is not burnable", ErrOperationNotPermitted, intent.TokenID)
	}

	tx := ledger.NewNFTokenBurn(l.signer.Address(), intent.TokenID)
	tx.Owner = intent.Owner
	return l.submitAndConfirm(ctx, "burn", tx)
}

// PaymentIntent sends XRP or issued currency to another account.
type PaymentIntent struct {
	Destination    string
	Amount         ledger.Amount
	DestinationTag *uint32
}

// Send submits a direct Payment and waits for validation.
func (l *Lifecycle) Send(ctx context.Context, intent PaymentIntent) (*ledger.TxConfirmation, error) {
	tx := ledger.NewPayment(l.signer.Address(), intent.Destination, intent.Amount)
	tx.DestinationTag = intent.DestinationTag
	return l.submitAndConfirm(ctx, "send", tx)
}

func (l *Lifecycle) isIssuer(token nft.Token) bool {
	return addresscodec.EncodeAccountID(token.Issuer) == l.signer.Address()
}

func (l *Lifecycle) autofill(ctx context.Context, tx ledger.Tx) error {
	common := ledger.Common(tx)
	if common.Sequence == nil {
		seq, err := l.node.AccountSequence(ctx, common.Account)
		if err != nil {
			return fmt.Errorf("autofill sequence: %w", err)
		}
		common.Sequence = &seq
	}
	if common.Fee == "" {
		fee, err := l.node.OpenLedgerFee(ctx)
		if err != nil {
			return fmt.Errorf("autofill fee: %w", err)
		}
		common.Fee = fee
	}
	if common.LastLedgerSequence == nil {
		current, err := l.node.CurrentLedgerIndex(ctx)
		if err != nil {
			return fmt.Errorf("autofill last ledger sequence: %w", err)
		}
		last := current + ledgerWindow
		common.LastLedgerSequence = &last
	}
	return nil
}

// submitAndConfirm runs the full mutation flow and blocks until the
// transaction lands in a validated ledger or can no longer be included.
func (l *Lifecycle) submitAndConfirm(ctx context.Context, operation string, tx ledger.Tx) (*ledger.TxConfirmation, error) {
	if err := l.autofill(ctx, tx); err != nil {
		return nil, fmt.Errorf("wallet: %s for %s: %w", operation, l.signer.Address(), err)
	}
	blob, hash, err := l.signer.Sign(tx)
	if err != nil {
		return nil, fmt.Errorf("wallet: %s for %s: %w", operation, l.signer.Address(), err)
	}

	result, err := l.node.Submit(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("wallet: %s for %s: submit: %w", operation, l.signer.Address(), err)
	}
	if result.TxHash != "" {
		hash = result.TxHash
	}
	if !preliminaryOK(result.EngineResult) {
		return nil, &TxRejectedError{
			Account:   l.signer.Address(),
			Operation: operation,
			Code:      result.EngineResult,
			Message:   result.EngineResultMessage,
		}
	}

	l.log.WithFields(logrus.Fields{
		"operation": operation,
		"hash":      hash,
		"result":    result.EngineResult,
	}).Info("transaction submitted")

	return l.awaitValidation(ctx, operation, hash, *ledger.Common(tx).LastLedgerSequence)
}

// preliminaryOK reports whether a submit engine result leaves the
// transaction in play. tes is applied to the open ledger, ter is retried
// by the network; tec claims the fee but still validates, so the final
// code is read from the validated ledger, not here.
func preliminaryOK(code string) bool {
	if len(code) < 3 {
		return false
	}
	switch code[:3] {
	case "tes", "ter", "tec":
		return true
	default:
		return false
	}
}

func (l *Lifecycle) awaitValidation(ctx context.Context, operation, hash string, lastLedger uint32) (*ledger.TxConfirmation, error) {
	ticker := time.NewTicker(l.confirmPoll)
	defer ticker.Stop()

	for {
		conf, err := l.node.Tx(ctx, hash)
		if err == nil && conf.Validated {
			if conf.Result != "tesSUCCESS" {
				return nil, &TxRejectedError{
					Account:   l.signer.Address(),
					Operation: operation,
					Code:      conf.Result,
				}
			}
			return conf, nil
		}

		// Not validated yet. Once the network is past LastLedgerSequence
		// the transaction can never be included.
		current, idxErr := l.node.CurrentLedgerIndex(ctx)
		if idxErr == nil && current > lastLedger {
			return nil, &TxRejectedError{
				Account:   l.signer.Address(),
				Operation: operation,
				Code:      "tefMAX_LEDGER",
				Message:   fmt.Sprintf("not validated by ledger %d", lastLedger),
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
