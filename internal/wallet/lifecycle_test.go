package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	binarycodec "github.com/Peersyst/xrpl-go/binary-codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addresscodec "github.com/LeJamon/goXRPLwallet/internal/codec/address-codec"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/nft"
)

const (
	sellOfferA = "00000000000000000000000000000000000000000000000000000000000000A1"
	sellOfferB = "00000000000000000000000000000000000000000000000000000000000000A2"
	buyOffer   = "00000000000000000000000000000000000000000000000000000000000000B1"
)

// mockNode records every submitted blob and serves canned offer listings.
// Submitted transactions validate immediately unless neverValidate is set.
type mockNode struct {
	sellOffers []ledger.Offer
	buyOffers  []ledger.Offer
	offerErr   error

	sequence    uint32
	ledgerIndex uint32
	submitCode  string
	submitErrs  []error

	neverValidate bool

	submissions []map[string]any
	cancelErr   error
}

func (m *mockNode) NFTOffers(_ context.Context, _ string, sell bool) ([]ledger.Offer, error) {
	if m.offerErr != nil {
		return nil, m.offerErr
	}
	if sell {
		return m.sellOffers, nil
	}
	return m.buyOffers, nil
}

func (m *mockNode) AccountSequence(_ context.Context, _ string) (uint32, error) {
	return m.sequence, nil
}

func (m *mockNode) CurrentLedgerIndex(_ context.Context) (uint32, error) {
	return m.ledgerIndex, nil
}

func (m *mockNode) OpenLedgerFee(_ context.Context) (string, error) {
	return "12", nil
}

func (m *mockNode) Submit(_ context.Context, txBlob string) (*ledger.SubmitResult, error) {
	fields, err := binarycodec.Decode(txBlob)
	if err != nil {
		return nil, err
	}
	if m.cancelErr != nil && fields["TransactionType"] == ledger.TypeNFTokenCancelOffer {
		return nil, m.cancelErr
	}
	m.submissions = append(m.submissions, fields)
	code := m.submitCode
	if code == "" {
		code = "tesSUCCESS"
	}
	return &ledger.SubmitResult{EngineResult: code, Accepted: true, Applied: true}, nil
}

func (m *mockNode) Tx(_ context.Context, hash string) (*ledger.TxConfirmation, error) {
	if m.neverValidate {
		m.ledgerIndex++
		return nil, errors.New("txnNotFound")
	}
	return &ledger.TxConfirmation{
		Hash:        hash,
		LedgerIndex: m.ledgerIndex,
		Validated:   true,
		Result:      "tesSUCCESS",
	}, nil
}

func testLifecycle(t *testing.T, node *mockNode) *Lifecycle {
	t.Helper()
	signer, err := NewSignerFromPassphrase("masterpassphrase", addresscodec.AlgorithmSECP256K1)
	require.NoError(t, err)
	l := NewLifecycle(node, signer, testLogger())
	l.confirmPoll = time.Millisecond
	return l
}

func TestAcceptOfferCancelsRemaining(t *testing.T) {
	node := &mockNode{
		sequence:    5,
		ledgerIndex: 100,
		sellOffers: []ledger.Offer{
			{OfferID: sellOfferA, Flags: 1},
			{OfferID: sellOfferB, Flags: 1},
		},
		buyOffers: []ledger.Offer{{OfferID: buyOffer}},
	}
	l := testLifecycle(t, node)

	conf, err := l.AcceptOffer(context.Background(), AcceptOfferIntent{
		TokenID: "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65",
		OfferID: buyOffer,
		Sell:    false,
	})
	require.NoError(t, err)
	require.NotNil(t, conf)

	// Exactly one accept followed by exactly one cancel listing both
	// remaining sell offers.
	require.Len(t, node.submissions, 2)
	accept := node.submissions[0]
	assert.Equal(t, ledger.TypeNFTokenAcceptOffer, accept["TransactionType"])
	assert.EqualValues(t, buyOffer, accept["NFTokenBuyOffer"])
	assert.NotContains(t, accept, "NFTokenSellOffer")

	cancel := node.submissions[1]
	assert.Equal(t, ledger.TypeNFTokenCancelOffer, cancel["TransactionType"])
	offers, ok := cancel["NFTokenOffers"].([]string)
	require.True(t, ok)
	require.Len(t, offers, 2)
	assert.ElementsMatch(t, []any{sellOfferA, sellOfferB}, offers)
}

func TestAcceptOfferNoRemainingOffers(t *testing.T) {
	node := &mockNode{
		buyOffers: []ledger.Offer{{OfferID: buyOffer}},
	}
	l := testLifecycle(t, node)

	conf, err := l.AcceptOffer(context.Background(), AcceptOfferIntent{
		TokenID: "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65",
		OfferID: buyOffer,
	})
	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.Len(t, node.submissions, 1)
}

func TestAcceptOfferCleanupFailureIsPartial(t *testing.T) {
	node := &mockNode{
		sellOffers: []ledger.Offer{{OfferID: sellOfferA, Flags: 1}},
		cancelErr:  errors.New("websocket: close 1006"),
	}
	l := testLifecycle(t, node)

	conf, err := l.AcceptOffer(context.Background(), AcceptOfferIntent{
		TokenID: "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65",
		OfferID: buyOffer,
	})

	// The accept stands: a confirmation comes back alongside the cleanup
	// error, and only the accept was recorded as applied.
	require.NotNil(t, conf)
	var partial *PartialCleanupError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, conf.Hash, partial.AcceptHash)
	assert.Len(t, node.submissions, 1)
}

func TestBurnRequiresBurnableFlag(t *testing.T) {
	node := &mockNode{}
	l := testLifecycle(t, node)

	var issuer [20]byte
	issuer[0] = 0x99
	id := nft.Encode(nft.Token{Flags: nft.FlagTransferable, Issuer: issuer, Sequence: 1})

	_, err := l.Burn(context.Background(), BurnIntent{TokenID: id.String()})
	require.ErrorIs(t, err, ErrOperationNotPermitted)
	assert.Empty(t, node.submissions)
}

func TestBurnBurnableToken(t *testing.T) {
	node := &mockNode{}
	l := testLifecycle(t, node)

	id := nft.Encode(nft.Token{Flags: nft.FlagBurnable, Sequence: 2})
	conf, err := l.Burn(context.Background(), BurnIntent{TokenID: id.String()})
	require.NoError(t, err)
	require.NotNil(t, conf)
	require.Len(t, node.submissions, 1)
	assert.Equal(t, ledger.TypeNFTokenBurn, node.submissions[0]["TransactionType"])
}

func TestBurnByIssuerBypassesFlagCheck(t *testing.T) {
	node := &mockNode{}
	l := testLifecycle(t, node)

	// Token minted by the signing account itself, burnable flag clear.
	issuer := mustAccountID(t)
	id := nft.Encode(nft.Token{Issuer: issuer, Sequence: 3})

	_, err := l.Burn(context.Background(), BurnIntent{TokenID: id.String()})
	require.NoError(t, err)
	assert.Len(t, node.submissions, 1)
}

func TestCreateSellOfferAutofill(t *testing.T) {
	node := &mockNode{sequence: 42, ledgerIndex: 700}
	l := testLifecycle(t, node)

	conf, err := l.CreateSellOffer(context.Background(), SellOfferIntent{
		TokenID: "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65",
		Amount:  ledger.XRPAmount("1000000"),
	})
	require.NoError(t, err)
	require.NotNil(t, conf)

	require.Len(t, node.submissions, 1)
	tx := node.submissions[0]
	assert.Equal(t, ledger.TypeNFTokenCreateOffer, tx["TransactionType"])
	assert.EqualValues(t, 42, tx["Sequence"])
	assert.EqualValues(t, 720, tx["LastLedgerSequence"])
	assert.EqualValues(t, ledger.CreateOfferFlagSellNFToken, tx["Flags"])
	assert.Equal(t, "12", tx["Fee"])
	assert.NotEmpty(t, tx["TxnSignature"])
	assert.NotEmpty(t, tx["SigningPubKey"])
}

func TestSendPayment(t *testing.T) {
	node := &mockNode{sequence: 8, ledgerIndex: 300}
	l := testLifecycle(t, node)

	tag := uint32(913)
	conf, err := l.Send(context.Background(), PaymentIntent{
		Destination:    "rrrrrrrrrrrrrrrrrrrrrhoLvTp",
		Amount:         ledger.XRPAmount("1000000"),
		DestinationTag: &tag,
	})
	require.NoError(t, err)
	require.NotNil(t, conf)

	require.Len(t, node.submissions, 1)
	tx := node.submissions[0]
	assert.Equal(t, ledger.TypePayment, tx["TransactionType"])
	assert.Equal(t, "rrrrrrrrrrrrrrrrrrrrrhoLvTp", tx["Destination"])
	assert.Equal(t, "1000000", tx["Amount"])
	assert.EqualValues(t, 913, tx["DestinationTag"])
	assert.EqualValues(t, 8, tx["Sequence"])
	assert.EqualValues(t, 320, tx["LastLedgerSequence"])
	assert.NotEmpty(t, tx["TxnSignature"])
}

func TestSendPaymentRejectsSelf(t *testing.T) {
	node := &mockNode{}
	l := testLifecycle(t, node)

	_, err := l.Send(context.Background(), PaymentIntent{
		Destination: l.Account(),
		Amount:      ledger.XRPAmount("5"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temREDUNDANT")
	assert.Empty(t, node.submissions)
}

func TestCreateBuyOfferRequiresOwner(t *testing.T) {
	node := &mockNode{}
	l := testLifecycle(t, node)

	_, err := l.CreateBuyOffer(context.Background(), BuyOfferIntent{
		TokenID: "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65",
		Amount:  ledger.XRPAmount("5"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Owner")
	assert.Empty(t, node.submissions)
}

func TestSubmitRejection(t *testing.T) {
	node := &mockNode{submitCode: "temMALFORMED"}
	l := testLifecycle(t, node)

	_, err := l.CancelOffers(context.Background(), []string{sellOfferA})
	var rejected *TxRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "temMALFORMED", rejected.Code)
	assert.Equal(t, "cancel-offers", rejected.Operation)
}

func TestConfirmationExpiry(t *testing.T) {
	node := &mockNode{ledgerIndex: 100, neverValidate: true}
	l := testLifecycle(t, node)

	_, err := l.CancelOffers(context.Background(), []string{sellOfferA})
	var rejected *TxRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "tefMAX_LEDGER", rejected.Code)
}

func TestOfferStateOf(t *testing.T) {
	sell := ledger.Offer{OfferID: sellOfferA, Flags: 1}
	buy := ledger.Offer{OfferID: buyOffer}

	assert.Equal(t, NoOffers, StateOf(ledger.EmptyOfferSet()))
	assert.Equal(t, SellOffered, StateOf(ledger.OfferSet{Sell: []ledger.Offer{sell}}))
	assert.Equal(t, BuyOffered, StateOf(ledger.OfferSet{Buy: []ledger.Offer{buy}}))
	assert.Equal(t, SellAndBuyOffered, StateOf(ledger.OfferSet{
		Sell: []ledger.Offer{sell},
		Buy:  []ledger.Offer{buy},
	}))
	assert.True(t, strings.Contains(SellAndBuyOffered.String(), "sell"))
}
