// Package nft implements the packed 256-bit NFTokenID format: pure
// encode/decode of the fixed-width fields and the taxon cipher.
package nft

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
)

// NFToken flags stored in the token ID, matching rippled.
const (
	FlagBurnable     uint16 = 0x0001
	FlagOnlyXRP      uint16 = 0x0002
	FlagTrustLine    uint16 = 0x0004
	FlagTransferable uint16 = 0x0008
	FlagMutable      uint16 = 0x0010
)

// ErrMalformedTokenID is returned when a token ID string is not exactly
// 64 hex characters. Parsing rejects bad input before any field slicing.
var ErrMalformedTokenID = errors.New("nft: malformed token ID")

// TokenID is the packed 256-bit NFToken identifier.
//
// Layout, big-endian, fixed offsets:
//
//	Flags(2) | TransferFee(2) | Issuer(20) | Taxon(4, ciphered) | Sequence(4)
type TokenID [32]byte

// Token holds the decoded fields of a TokenID. Taxon is the plain value,
// after removing the cipher.
type Token struct {
	Flags       uint16
	TransferFee uint16
	Issuer      [20]byte
	Taxon       uint32
	Sequence    uint32
}

// ParseTokenID parses a 64-character hex string into a TokenID.
func ParseTokenID(s string) (TokenID, error) {
	var id TokenID
	if len(s) != 64 {
		return id, ErrMalformedTokenID
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return id, ErrMalformedTokenID
	}
	copy(id[:], decoded)
	return id, nil
}

// String returns the canonical upper-case hex form.
func (id TokenID) String() string {
	return strings.ToUpper(hex.EncodeToString(id[:]))
}

// cipheredTaxon applies the taxon scramble defined by the ledger's
// token-minting specification (rippled nft.h): an XOR with a sequence-keyed
// LCG output. The operation is its own inverse, so the same function both
// ciphers and deciphers.
func cipheredTaxon(tokenSeq, taxon uint32) uint32 {
	return taxon ^ (384160001*tokenSeq + 2459872)
}

// Decode unpacks the token ID and removes the taxon cipher.
func Decode(id TokenID) Token {
	var token Token
	token.Flags = binary.BigEndian.Uint16(id[0:2])
	token.TransferFee = binary.BigEndian.Uint16(id[2:4])
	copy(token.Issuer[:], id[4:24])
	token.Sequence = binary.BigEndian.Uint32(id[28:32])
	token.Taxon = cipheredTaxon(token.Sequence, binary.BigEndian.Uint32(id[24:28]))
	return token
}

// Encode packs the fields back into a token ID, re-applying the taxon
// cipher. Encode(Decode(id)) == id for every well-formed ID.
func Encode(token Token) TokenID {
	var id TokenID
	binary.BigEndian.PutUint16(id[0:2], token.Flags)
	binary.BigEndian.PutUint16(id[2:4], token.TransferFee)
	copy(id[4:24], token.Issuer[:])
	binary.BigEndian.PutUint32(id[24:28], cipheredTaxon(token.Sequence, token.Taxon))
	binary.BigEndian.PutUint32(id[28:32], token.Sequence)
	return id
}

// IsBurnable reports whether the issuer may burn the token regardless of
// the current holder.
func (t Token) IsBurnable() bool { return t.Flags&FlagBurnable != 0 }

// IsTransferable reports whether the token may be transferred between
// non-issuer accounts.
func (t Token) IsTransferable() bool { return t.Flags&FlagTransferable != 0 }

// OnlyXRP reports whether offers for the token must be denominated in XRP.
func (t Token) OnlyXRP() bool { return t.Flags&FlagOnlyXRP != 0 }
