package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	txTestAccount = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	txTestOther   = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
	txTestTokenID = "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65"
)

func u16(v uint16) *uint16 { return &v }
func u32(v uint32) *uint32 { return &v }

func TestNFTokenMintValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NFTokenMint)
		wantErr string
	}{
		{"minimal", func(*NFTokenMint) {}, ""},
		{"all valid flags", func(m *NFTokenMint) {
			m.Flags = u32(MintFlagBurnable | MintFlagOnlyXRP | MintFlagTransferable)
		}, ""},
		{"unknown flag", func(m *NFTokenMint) { m.Flags = u32(0x8000) }, "temINVALID_FLAG"},
		{"fee requires transferable", func(m *NFTokenMint) { m.TransferFee = u16(100) }, "temMALFORMED"},
		{"fee with transferable", func(m *NFTokenMint) {
			m.Flags = u32(MintFlagTransferable)
			m.TransferFee = u16(100)
		}, ""},
		{"fee above cap", func(m *NFTokenMint) {
			m.Flags = u32(MintFlagTransferable)
			m.TransferFee = u16(50001)
		}, "temBAD_NFTOKEN_TRANSFER_FEE"},
		{"uri too long", func(m *NFTokenMint) { m.URI = strings.Repeat("AB", 257) }, "temMALFORMED"},
		{"no account", func(m *NFTokenMint) { m.Account = "" }, "Account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mint := NewNFTokenMint(txTestAccount, 7)
			tt.mutate(mint)
			err := mint.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNFTokenCreateOfferValidate(t *testing.T) {
	sellFlags := CreateOfferFlagSellNFToken

	tests := []struct {
		name    string
		mutate  func(*NFTokenCreateOffer)
		wantErr string
	}{
		{"sell offer", func(o *NFTokenCreateOffer) { o.Flags = &sellFlags }, ""},
		{"buy offer", func(o *NFTokenCreateOffer) { o.Owner = txTestOther }, ""},
		{"unknown flag", func(o *NFTokenCreateOffer) { o.Flags = u32(0x10) }, "temINVALID_FLAG"},
		{"buy without owner", func(*NFTokenCreateOffer) {}, "Owner is required"},
		{"sell with owner", func(o *NFTokenCreateOffer) {
			o.Flags = &sellFlags
			o.Owner = txTestOther
		}, "Owner not allowed"},
		{"buy own token", func(o *NFTokenCreateOffer) { o.Owner = txTestAccount }, "your own token"},
		{"destination is self", func(o *NFTokenCreateOffer) {
			o.Flags = &sellFlags
			o.Destination = txTestAccount
		}, "Destination"},
		{"zero expiration", func(o *NFTokenCreateOffer) {
			o.Flags = &sellFlags
			o.Expiration = u32(0)
		}, "temBAD_EXPIRATION"},
		{"zero buy amount", func(o *NFTokenCreateOffer) {
			o.Owner = txTestOther
			o.Amount = XRPAmount("0")
		}, "temBAD_AMOUNT"},
		{"free sell offer", func(o *NFTokenCreateOffer) {
			o.Flags = &sellFlags
			o.Amount = XRPAmount("0")
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := NewNFTokenCreateOffer(txTestAccount, txTestTokenID, XRPAmount("1000"))
			tt.mutate(offer)
			err := offer.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNFTokenCancelOfferValidate(t *testing.T) {
	assert.NoError(t, NewNFTokenCancelOffer(txTestAccount, []string{"A", "B"}).Validate())
	assert.Error(t, NewNFTokenCancelOffer(txTestAccount, nil).Validate())
	assert.Error(t, NewNFTokenCancelOffer(txTestAccount, []string{"A", "A"}).Validate())

	tooMany := make([]string, MaxOfferCancelCount+1)
	for i := range tooMany {
		tooMany[i] = strings.Repeat("0", 60) + string(rune('A'+i%26)) + string(rune('A'+(i/26)%26)) + string(rune('A'+(i/676)%26)) + "Z"
	}
	assert.Error(t, NewNFTokenCancelOffer(txTestAccount, tooMany).Validate())
}

func TestNFTokenAcceptOfferValidate(t *testing.T) {
	assert.NoError(t, NewNFTokenAcceptOffer(txTestAccount, "OFFER", true).Validate())
	assert.NoError(t, NewNFTokenAcceptOffer(txTestAccount, "OFFER", false).Validate())

	neither := &NFTokenAcceptOffer{
		TxCommon: TxCommon{Account: txTestAccount, TransactionType: TypeNFTokenAcceptOffer},
	}
	assert.Error(t, neither.Validate())

	both := NewNFTokenAcceptOffer(txTestAccount, "SELL", true)
	both.NFTokenBuyOffer = "BUY"
	assert.Error(t, both.Validate())
}

func TestPaymentValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Payment)
		wantErr string
	}{
		{"minimal", func(*Payment) {}, ""},
		{"with tag", func(p *Payment) { p.DestinationTag = u32(7) }, ""},
		{"no destination", func(p *Payment) { p.Destination = "" }, "temMALFORMED"},
		{"self payment", func(p *Payment) { p.Destination = txTestAccount }, "temREDUNDANT"},
		{"zero amount", func(p *Payment) { p.Amount = XRPAmount("0") }, "temBAD_AMOUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := NewPayment(txTestAccount, txTestOther, XRPAmount("1000000"))
			tt.mutate(payment)
			err := payment.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFlattenFieldTypes(t *testing.T) {
	mint := NewNFTokenMint(txTestAccount, 9)
	mint.Flags = u32(MintFlagTransferable)
	mint.TransferFee = u16(250)
	seq := uint32(12)
	mint.Sequence = &seq
	last := uint32(700)
	mint.LastLedgerSequence = &last
	mint.Fee = "10"

	fields, err := Flatten(mint)
	require.NoError(t, err)

	assert.Equal(t, txTestAccount, fields["Account"])
	assert.Equal(t, TypeNFTokenMint, fields["TransactionType"])
	assert.Equal(t, "10", fields["Fee"])

	// UInt32-serialized fields must come out as uint32, narrower ones as
	// int; the binary codec type-asserts exactly these.
	assert.Equal(t, uint32(9), fields["NFTokenTaxon"])
	assert.Equal(t, uint32(12), fields["Sequence"])
	assert.Equal(t, uint32(700), fields["LastLedgerSequence"])
	assert.Equal(t, MintFlagTransferable, fields["Flags"])
	assert.Equal(t, 250, fields["TransferFee"])

	// Unset optionals stay off the wire entirely.
	assert.NotContains(t, fields, "URI")
	assert.NotContains(t, fields, "TxnSignature")
}

func TestFlattenOfferExpiration(t *testing.T) {
	offer := NewNFTokenCreateOffer(txTestAccount, "00", XRPAmount("1"))
	offer.Flags = u32(CreateOfferFlagSellNFToken)
	exp := uint32(755000000)
	offer.Expiration = &exp

	fields, err := Flatten(offer)
	require.NoError(t, err)
	assert.Equal(t, uint32(755000000), fields["Expiration"])
	assert.Equal(t, CreateOfferFlagSellNFToken, fields["Flags"])
}
