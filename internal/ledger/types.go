// Package ledger defines the wire-level types this wallet exchanges with an
// XRPL node: ledger objects, offer listings, transaction JSON and the
// ripple-epoch time helpers.
package ledger

import (
	"encoding/json"
	"errors"
	"time"
)

// RippleEpoch is January 1, 2000 00:00:00 UTC. All on-ledger timestamps
// count seconds from it.
var RippleEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ToRippleTime converts a time.Time to seconds since the ripple epoch.
func ToRippleTime(t time.Time) uint32 {
	return uint32(t.Unix() - RippleEpoch.Unix())
}

// FromRippleTime converts seconds since the ripple epoch to a time.Time.
func FromRippleTime(s uint32) time.Time {
	return RippleEpoch.Add(time.Duration(s) * time.Second)
}

// ExpirationAfter returns an absolute ledger expiration the given duration
// from now.
func ExpirationAfter(d time.Duration) uint32 {
	return ToRippleTime(time.Now().Add(d))
}

// IOUAmount is an issued-currency amount.
type IOUAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// Amount is either an XRP amount in drops or an issued-currency amount.
// On the wire XRP is a bare string and IOUs are objects; Amount hides that
// union behind one type so callers never branch on JSON shape.
type Amount struct {
	Drops string
	IOU   *IOUAmount
}

// XRPAmount returns an XRP Amount from a drops string.
func XRPAmount(drops string) Amount {
	return Amount{Drops: drops}
}

// IsZero reports whether the amount is zero or unset.
func (a Amount) IsZero() bool {
	if a.IOU != nil {
		return a.IOU.Value == "" || a.IOU.Value == "0"
	}
	return a.Drops == "" || a.Drops == "0"
}

// MarshalJSON writes the XRPL wire form.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IOU != nil {
		return json.Marshal(a.IOU)
	}
	return json.Marshal(a.Drops)
}

// UnmarshalJSON accepts both the drops string and the IOU object form.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var drops string
	if err := json.Unmarshal(data, &drops); err == nil {
		a.Drops = drops
		a.IOU = nil
		return nil
	}
	var iou IOUAmount
	if err := json.Unmarshal(data, &iou); err != nil {
		return errors.New("ledger: amount is neither drops string nor IOU object")
	}
	a.IOU = &iou
	a.Drops = ""
	return nil
}

// NFTokenEntry is one token inside an NFTokenPage.
type NFTokenEntry struct {
	NFTokenID string `json:"NFTokenID"`
	URI       string `json:"URI,omitempty"`
}

// NFTokenWrapper matches the nested {"NFToken": {...}} wire layout.
type NFTokenWrapper struct {
	NFToken NFTokenEntry `json:"NFToken"`
}

// PageCapacity is the maximum number of tokens a single NFTokenPage holds.
const PageCapacity = 32

// NFTokenPage is an NFTokenPage ledger object as returned by ledger_entry.
// Pages form a doubly linked list through PreviousPageMin and NextPageMin;
// they are immutable, membership changes replace the page.
type NFTokenPage struct {
	LedgerEntryType string           `json:"LedgerEntryType"`
	Flags           uint32           `json:"Flags"`
	NFTokens        []NFTokenWrapper `json:"NFTokens"`
	PreviousPageMin string           `json:"PreviousPageMin,omitempty"`
	NextPageMin     string           `json:"NextPageMin,omitempty"`
	PreviousTxnID   string           `json:"PreviousTxnID,omitempty"`
	Index           string           `json:"index"`
}

// lsfSellNFToken marks sell offers in NFTokenOffer ledger entries.
const lsfSellNFToken uint32 = 0x00000001

// Offer is one entry from an nft_sell_offers or nft_buy_offers response.
type Offer struct {
	Amount      Amount  `json:"amount"`
	Flags       uint32  `json:"flags"`
	OfferID     string  `json:"nft_offer_index"`
	Owner       string  `json:"owner"`
	Destination string  `json:"destination,omitempty"`
	Expiration  *uint32 `json:"expiration,omitempty"`
}

// IsSell reports whether the offer is a sell offer.
func (o Offer) IsSell() bool {
	return o.Flags&lsfSellNFToken != 0
}

// IsExpired reports whether the offer has an expiration in the past.
func (o Offer) IsExpired(now time.Time) bool {
	return o.Expiration != nil && !FromRippleTime(*o.Expiration).After(now)
}

// OfferSet groups the standing offers for one token. Both slices are
// always non-nil; "no offers" is an empty slice, never null.
type OfferSet struct {
	Sell []Offer `json:"sell"`
	Buy  []Offer `json:"buy"`
}

// EmptyOfferSet returns an OfferSet with allocated, empty slices.
func EmptyOfferSet() OfferSet {
	return OfferSet{Sell: []Offer{}, Buy: []Offer{}}
}

// SubmitResult is the node's answer to a submit request.
type SubmitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	Accepted            bool   `json:"accepted"`
	Applied             bool   `json:"applied"`
	TxHash              string `json:"tx_hash,omitempty"`
}

// TxConfirmation describes a transaction's final disposition in a
// validated ledger.
type TxConfirmation struct {
	Hash        string `json:"hash"`
	LedgerIndex uint32 `json:"ledger_index"`
	Validated   bool   `json:"validated"`
	Result      string `json:"result"`
}

// TransactionEvent is a pushed notification from an account subscription
// stream. Only the fields the wallet consumes are decoded; the rest of the
// payload deliberately stays opaque, every event triggers a full refetch.
type TransactionEvent struct {
	Type        string `json:"type"`
	Account     string `json:"account,omitempty"`
	Hash        string `json:"hash,omitempty"`
	LedgerIndex uint32 `json:"ledger_index,omitempty"`
	Validated   bool   `json:"validated"`

	Transaction json.RawMessage `json:"transaction,omitempty"`
	Meta        json.RawMessage `json:"meta,omitempty"`
}
