package rpcclient

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/keylet"
)

// ResolveNFTPage fetches the validated NFTokenPage covering the given key.
// A missing page returns (nil, nil): an account with no tokens has no page
// chain at all.
func (c *Client) ResolveNFTPage(ctx context.Context, key keylet.Key) (*ledger.NFTokenPage, error) {
	result, err := c.Request(ctx, "ledger_entry", map[string]any{
		"nft_page":     strings.ToUpper(hex.EncodeToString(key[:])),
		"ledger_index": "validated",
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var entry struct {
		Index string             `json:"index"`
		Node  ledger.NFTokenPage `json:"node"`
	}
	if err := json.Unmarshal(result, &entry); err != nil {
		return nil, fmt.Errorf("rpcclient: decode nft_page: %w", err)
	}
	entry.Node.Index = entry.Index
	return &entry.Node, nil
}

// NFTOffers lists the standing sell or buy offers for a token. The node
// answers objectNotFound when none exist; that is an empty list here.
func (c *Client) NFTOffers(ctx context.Context, tokenID string, sell bool) ([]ledger.Offer, error) {
	command := "nft_buy_offers"
	if sell {
		command = "nft_sell_offers"
	}

	result, err := c.Request(ctx, command, map[string]any{
		"nft_id":       tokenID,
		"ledger_index": "validated",
	})
	if err != nil {
		if IsNotFound(err) {
			return []ledger.Offer{}, nil
		}
		return nil, err
	}

	var listing struct {
		Offers []ledger.Offer `json:"offers"`
	}
	if err := json.Unmarshal(result, &listing); err != nil {
		return nil, fmt.Errorf("rpcclient: decode %s: %w", command, err)
	}
	if listing.Offers == nil {
		listing.Offers = []ledger.Offer{}
	}
	return listing.Offers, nil
}

// AccountSequence returns the account's next transaction sequence from the
// current (in-progress) ledger.
func (c *Client) AccountSequence(ctx context.Context, account string) (uint32, error) {
	result, err := c.Request(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": "current",
	})
	if err != nil {
		return 0, err
	}

	var info struct {
		AccountData struct {
			Sequence uint32 `json:"Sequence"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(result, &info); err != nil {
		return 0, fmt.Errorf("rpcclient: decode account_info: %w", err)
	}
	return info.AccountData.Sequence, nil
}

// CurrentLedgerIndex returns the index of the in-progress ledger.
func (c *Client) CurrentLedgerIndex(ctx context.Context) (uint32, error) {
	result, err := c.Request(ctx, "ledger_current", nil)
	if err != nil {
		return 0, err
	}

	var current struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}
	if err := json.Unmarshal(result, &current); err != nil {
		return 0, fmt.Errorf("rpcclient: decode ledger_current: %w", err)
	}
	return current.LedgerCurrentIndex, nil
}

// OpenLedgerFee returns the current open-ledger transaction cost in drops.
func (c *Client) OpenLedgerFee(ctx context.Context) (string, error) {
	result, err := c.Request(ctx, "fee", nil)
	if err != nil {
		return "", err
	}

	var fee struct {
		Drops struct {
			OpenLedgerFee string `json:"open_ledger_fee"`
			BaseFee       string `json:"base_fee"`
		} `json:"drops"`
	}
	if err := json.Unmarshal(result, &fee); err != nil {
		return "", fmt.Errorf("rpcclient: decode fee: %w", err)
	}
	if fee.Drops.OpenLedgerFee != "" {
		return fee.Drops.OpenLedgerFee, nil
	}
	return fee.Drops.BaseFee, nil
}

// Submit sends a signed transaction blob.
func (c *Client) Submit(ctx context.Context, txBlob string) (*ledger.SubmitResult, error) {
	result, err := c.Request(ctx, "submit", map[string]any{
		"tx_blob": txBlob,
	})
	if err != nil {
		return nil, err
	}

	var submit struct {
		ledger.SubmitResult
		TxJSON struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(result, &submit); err != nil {
		return nil, fmt.Errorf("rpcclient: decode submit: %w", err)
	}
	submitResult := submit.SubmitResult
	if submitResult.TxHash == "" {
		submitResult.TxHash = submit.TxJSON.Hash
	}
	return &submitResult, nil
}

// Tx looks a transaction up by hash.
func (c *Client) Tx(ctx context.Context, hash string) (*ledger.TxConfirmation, error) {
	result, err := c.Request(ctx, "tx", map[string]any{
		"transaction": hash,
	})
	if err != nil {
		return nil, err
	}

	var tx struct {
		Hash        string `json:"hash"`
		LedgerIndex uint32 `json:"ledger_index"`
		Validated   bool   `json:"validated"`
		Meta        struct {
			TransactionResult string `json:"TransactionResult"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, fmt.Errorf("rpcclient: decode tx: %w", err)
	}
	return &ledger.TxConfirmation{
		Hash:        tx.Hash,
		LedgerIndex: tx.LedgerIndex,
		Validated:   tx.Validated,
		Result:      tx.Meta.TransactionResult,
	}, nil
}

// SubscribeAccounts starts an account transaction stream for the given
// accounts on this connection.
func (c *Client) SubscribeAccounts(ctx context.Context, accounts []string) error {
	_, err := c.Request(ctx, "subscribe", map[string]any{
		"accounts": accounts,
	})
	return err
}

// UnsubscribeAccounts stops the stream for the given accounts.
// Unsubscribing accounts that were never subscribed is a no-op on the
// node side.
func (c *Client) UnsubscribeAccounts(ctx context.Context, accounts []string) error {
	_, err := c.Request(ctx, "unsubscribe", map[string]any{
		"accounts": accounts,
	})
	return err
}

// TransactionEvents adapts the raw push stream to decoded transaction
// events; messages of other types are skipped.
func TransactionEvents(raw <-chan PushEvent) <-chan ledger.TransactionEvent {
	out := make(chan ledger.TransactionEvent, eventQueueSize)
	go func() {
		defer close(out)
		for evt := range raw {
			if evt.Type != "transaction" {
				continue
			}
			var txEvent ledger.TransactionEvent
			if err := json.Unmarshal(evt.Payload, &txEvent); err != nil {
				continue
			}
			out <- txEvent
		}
	}()
	return out
}
