package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Transaction type names on the wire.
const (
	TypePayment            = "Payment"
	TypeNFTokenMint        = "NFTokenMint"
	TypeNFTokenBurn        = "NFTokenBurn"
	TypeNFTokenCreateOffer = "NFTokenCreateOffer"
	TypeNFTokenCancelOffer = "NFTokenCancelOffer"
	TypeNFTokenAcceptOffer = "NFTokenAcceptOffer"
)

// NFTokenMint transaction flags.
const (
	MintFlagBurnable     uint32 = 0x00000001
	MintFlagOnlyXRP      uint32 = 0x00000002
	MintFlagTransferable uint32 = 0x00000008
	MintFlagMutable      uint32 = 0x00000010

	mintFlagMask = ^(MintFlagBurnable | MintFlagOnlyXRP | MintFlagTransferable | MintFlagMutable)
)

// NFTokenCreateOffer flags.
const (
	CreateOfferFlagSellNFToken uint32 = 0x00000001

	createOfferFlagMask = ^CreateOfferFlagSellNFToken
)

const (
	// maxTransferFee is the maximum mint transfer fee (50000 = 50%).
	maxTransferFee = 50000

	// maxTokenURIBytes bounds the decoded URI length.
	maxTokenURIBytes = 256

	// MaxOfferCancelCount is the most offers one NFTokenCancelOffer may
	// list, matching rippled's maxTokenOfferCancelCount.
	MaxOfferCancelCount = 500
)

// TxCommon carries the fields shared by every transaction. Fee, Sequence
// and LastLedgerSequence are filled in during autofill; SigningPubKey and
// TxnSignature during signing.
type TxCommon struct {
	Account            string  `json:"Account"`
	TransactionType    string  `json:"TransactionType"`
	Fee                string  `json:"Fee,omitempty"`
	Sequence           *uint32 `json:"Sequence,omitempty"`
	Flags              *uint32 `json:"Flags,omitempty"`
	LastLedgerSequence *uint32 `json:"LastLedgerSequence,omitempty"`
	SigningPubKey      string  `json:"SigningPubKey,omitempty"`
	TxnSignature       string  `json:"TxnSignature,omitempty"`
}

func (c *TxCommon) common() *TxCommon { return c }

func (c *TxCommon) validateCommon() error {
	if c.Account == "" {
		return errors.New("Account is required")
	}
	if c.TransactionType == "" {
		return errors.New("TransactionType is required")
	}
	return nil
}

// Tx is a buildable, signable wallet transaction.
type Tx interface {
	Validate() error
	common() *TxCommon
}

// Common exposes the shared fields of any Tx for autofill and signing.
func Common(tx Tx) *TxCommon { return tx.common() }

// uint32Fields are the fields the binary codec serializes as UInt32. The
// codec's UInt32 type asserts a Go uint32 out of the field map; every
// narrower integer type asserts int.
var uint32Fields = map[string]struct{}{
	"Flags":              {},
	"Sequence":           {},
	"LastLedgerSequence": {},
	"NFTokenTaxon":       {},
	"Expiration":         {},
	"DestinationTag":     {},
	"SourceTag":          {},
}

// Flatten marshals a transaction into the field map the binary codec
// consumes, with each numeric field carrying the Go type its serializer
// expects.
func Flatten(tx Tx) (map[string]any, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	normalizeNumbers(fields)
	return fields, nil
}

func normalizeNumbers(fields map[string]any) {
	for key, value := range fields {
		switch v := value.(type) {
		case json.Number:
			n, err := strconv.ParseUint(v.String(), 10, 64)
			if err != nil {
				continue
			}
			if _, ok := uint32Fields[key]; ok {
				fields[key] = uint32(n)
			} else {
				fields[key] = int(n)
			}
		case map[string]any:
			normalizeNumbers(v)
		case []any:
			strs := make([]string, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					normalizeNumbers(m)
				}
				if s, ok := item.(string); ok {
					strs = append(strs, s)
				}
			}
			if len(strs) == len(v) && len(v) > 0 {
				fields[key] = strs
			}
		}
	}
}

// NFTokenMint mints a new token for the signing account.
type NFTokenMint struct {
	TxCommon

	NFTokenTaxon uint32  `json:"NFTokenTaxon"`
	Issuer       string  `json:"Issuer,omitempty"`
	TransferFee  *uint16 `json:"TransferFee,omitempty"`
	URI          string  `json:"URI,omitempty"`
}

// NewNFTokenMint creates an NFTokenMint transaction.
func NewNFTokenMint(account string, taxon uint32) *NFTokenMint {
	return &NFTokenMint{
		TxCommon:     TxCommon{Account: account, TransactionType: TypeNFTokenMint},
		NFTokenTaxon: taxon,
	}
}

// Validate checks the mint preflight rules rippled enforces, so obviously
// bad transactions never reach the network.
func (n *NFTokenMint) Validate() error {
	if err := n.validateCommon(); err != nil {
		return err
	}
	if n.Flags != nil && *n.Flags&mintFlagMask != 0 {
		return errors.New("temINVALID_FLAG: invalid NFTokenMint flags")
	}
	if n.Issuer == n.Account && n.Issuer != "" {
		return errors.New("temMALFORMED: Issuer must differ from Account")
	}
	if n.TransferFee != nil {
		if *n.TransferFee > maxTransferFee {
			return fmt.Errorf("temBAD_NFTOKEN_TRANSFER_FEE: transfer fee %d exceeds %d", *n.TransferFee, maxTransferFee)
		}
		if *n.TransferFee > 0 && (n.Flags == nil || *n.Flags&MintFlagTransferable == 0) {
			return errors.New("temMALFORMED: transfer fee requires the transferable flag")
		}
	}
	if len(n.URI) > maxTokenURIBytes*2 {
		return errors.New("temMALFORMED: URI too long")
	}
	return nil
}

// NFTokenBurn removes a token from the ledger.
type NFTokenBurn struct {
	TxCommon

	NFTokenID string `json:"NFTokenID"`
	Owner     string `json:"Owner,omitempty"`
}

// NewNFTokenBurn creates an NFTokenBurn transaction.
func NewNFTokenBurn(account, tokenID string) *NFTokenBurn {
	return &NFTokenBurn{
		TxCommon:  TxCommon{Account: account, TransactionType: TypeNFTokenBurn},
		NFTokenID: tokenID,
	}
}

func (n *NFTokenBurn) Validate() error {
	if err := n.validateCommon(); err != nil {
		return err
	}
	if n.NFTokenID == "" {
		return errors.New("temMALFORMED: NFTokenID is required")
	}
	return nil
}

// NFTokenCreateOffer places a buy or sell offer for a token.
type NFTokenCreateOffer struct {
	TxCommon

	NFTokenID   string  `json:"NFTokenID"`
	Amount      Amount  `json:"Amount"`
	Owner       string  `json:"Owner,omitempty"`
	Destination string  `json:"Destination,omitempty"`
	Expiration  *uint32 `json:"Expiration,omitempty"`
}

// NewNFTokenCreateOffer creates an NFTokenCreateOffer transaction. Sell
// offers additionally need the tfSellNFToken flag.
func NewNFTokenCreateOffer(account, tokenID string, amount Amount) *NFTokenCreateOffer {
	return &NFTokenCreateOffer{
		TxCommon:  TxCommon{Account: account, TransactionType: TypeNFTokenCreateOffer},
		NFTokenID: tokenID,
		Amount:    amount,
	}
}

// IsSell reports whether the sell flag is set.
func (n *NFTokenCreateOffer) IsSell() bool {
	return n.Flags != nil && *n.Flags&CreateOfferFlagSellNFToken != 0
}

// Validate mirrors rippled's NFTokenCreateOffer preflight.
func (n *NFTokenCreateOffer) Validate() error {
	if err := n.validateCommon(); err != nil {
		return err
	}
	if n.Flags != nil && *n.Flags&createOfferFlagMask != 0 {
		return errors.New("temINVALID_FLAG: invalid NFTokenCreateOffer flags")
	}
	if n.NFTokenID == "" {
		return errors.New("temMALFORMED: NFTokenID is required")
	}
	if !n.IsSell() && n.Owner == "" {
		return errors.New("temMALFORMED: Owner is required for buy offers")
	}
	if n.IsSell() && n.Owner != "" {
		return errors.New("temMALFORMED: Owner not allowed for sell offers")
	}
	if !n.IsSell() && n.Owner == n.Account {
		return errors.New("temMALFORMED: cannot create buy offer for your own token")
	}
	if n.Destination != "" && n.Destination == n.Account {
		return errors.New("temMALFORMED: Destination cannot be the same as Account")
	}
	if n.Expiration != nil && *n.Expiration == 0 {
		return errors.New("temBAD_EXPIRATION: Expiration cannot be 0")
	}
	if !n.IsSell() && n.Amount.IsZero() {
		return errors.New("temBAD_AMOUNT: buy offer amount cannot be zero")
	}
	if n.Amount.IOU != nil && n.Amount.IsZero() {
		return errors.New("temBAD_AMOUNT: IOU amount cannot be zero")
	}
	return nil
}

// NFTokenCancelOffer cancels one or more offers in a single transaction.
// Cancellation is all-or-nothing: the ledger either applies the whole
// batch or rejects it.
type NFTokenCancelOffer struct {
	TxCommon

	NFTokenOffers []string `json:"NFTokenOffers"`
}

// NewNFTokenCancelOffer creates an NFTokenCancelOffer transaction.
func NewNFTokenCancelOffer(account string, offerIDs []string) *NFTokenCancelOffer {
	return &NFTokenCancelOffer{
		TxCommon:      TxCommon{Account: account, TransactionType: TypeNFTokenCancelOffer},
		NFTokenOffers: offerIDs,
	}
}

func (n *NFTokenCancelOffer) Validate() error {
	if err := n.validateCommon(); err != nil {
		return err
	}
	if len(n.NFTokenOffers) == 0 {
		return errors.New("temMALFORMED: NFTokenOffers must not be empty")
	}
	if len(n.NFTokenOffers) > MaxOfferCancelCount {
		return fmt.Errorf("temMALFORMED: cannot cancel more than %d offers", MaxOfferCancelCount)
	}
	seen := make(map[string]struct{}, len(n.NFTokenOffers))
	for _, id := range n.NFTokenOffers {
		if _, dup := seen[id]; dup {
			return errors.New("temMALFORMED: duplicate offer in NFTokenOffers")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// NFTokenAcceptOffer accepts a single buy or sell offer. Brokered mode
// (both set) is intentionally unsupported here.
type NFTokenAcceptOffer struct {
	TxCommon

	NFTokenSellOffer string `json:"NFTokenSellOffer,omitempty"`
	NFTokenBuyOffer  string `json:"NFTokenBuyOffer,omitempty"`
}

// NewNFTokenAcceptOffer creates an NFTokenAcceptOffer for exactly one
// offer; sell selects whether the referenced offer is a sell offer.
func NewNFTokenAcceptOffer(account, offerID string, sell bool) *NFTokenAcceptOffer {
	accept := &NFTokenAcceptOffer{
		TxCommon: TxCommon{Account: account, TransactionType: TypeNFTokenAcceptOffer},
	}
	if sell {
		accept.NFTokenSellOffer = offerID
	} else {
		accept.NFTokenBuyOffer = offerID
	}
	return accept
}

func (n *NFTokenAcceptOffer) Validate() error {
	if err := n.validateCommon(); err != nil {
		return err
	}
	if n.NFTokenSellOffer == "" && n.NFTokenBuyOffer == "" {
		return errors.New("temMALFORMED: an offer to accept is required")
	}
	if n.NFTokenSellOffer != "" && n.NFTokenBuyOffer != "" {
		return errors.New("temMALFORMED: brokered accept is not supported")
	}
	return nil
}

// Payment sends value directly to another account. Paths and partial
// payments are not built here.
type Payment struct {
	TxCommon

	Destination    string  `json:"Destination"`
	Amount         Amount  `json:"Amount"`
	DestinationTag *uint32 `json:"DestinationTag,omitempty"`
}

// NewPayment creates a direct Payment transaction.
func NewPayment(account, destination string, amount Amount) *Payment {
	return &Payment{
		TxCommon:    TxCommon{Account: account, TransactionType: TypePayment},
		Destination: destination,
		Amount:      amount,
	}
}

func (p *Payment) Validate() error {
	if err := p.validateCommon(); err != nil {
		return err
	}
	if p.Destination == "" {
		return errors.New("temMALFORMED: Destination is required")
	}
	if p.Destination == p.Account {
		return errors.New("temREDUNDANT: Destination is the sending account")
	}
	if p.Amount.IsZero() {
		return errors.New("temBAD_AMOUNT: payment amount cannot be zero")
	}
	return nil
}
