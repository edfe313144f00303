// Package addresscodec converts between XRPL public keys, 20-byte account
// IDs and their text encodings (classic r-addresses and X-addresses).
//
// The account ID derivation is total and deterministic: the same public key
// always yields the same ID. The same code path serves both index-anchor
// computation and display encoding, so the two can never disagree.
package addresscodec

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"

	ed25519crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/algorithms/ed25519"
	crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/common"
)

// Type prefixes for base58check encodings, matching rippled's TokenType.
const (
	AccountIDPrefix        byte = 0x00 // 'r...'
	AccountPublicKeyPrefix byte = 0x23 // 'a...'
	NodePublicKeyPrefix    byte = 0x1C // 'n...'
	FamilySeedPrefix       byte = 0x21 // 's...'
)

var (
	// ErrInvalidKeyEncoding is returned for public keys that are not
	// well-formed 33-byte compressed keys.
	ErrInvalidKeyEncoding = errors.New("addresscodec: invalid public key encoding")

	// ErrInvalidAddressEncoding is returned for malformed address text.
	ErrInvalidAddressEncoding = errors.New("addresscodec: invalid address encoding")
)

const (
	accountIDLength = 20
	publicKeyLength = 33
)

// AccountIDFromPublicKey derives the canonical 20-byte account ID from a
// compressed public key: RIPEMD160(SHA256(pubKey)).
//
// Both secp256k1 keys (0x02/0x03 prefix) and prefixed Ed25519 keys (0xED)
// are accepted; anything else fails with ErrInvalidKeyEncoding.
func AccountIDFromPublicKey(pubKey []byte) ([20]byte, error) {
	if len(pubKey) != publicKeyLength {
		return [20]byte{}, ErrInvalidKeyEncoding
	}

	switch pubKey[0] {
	case 0x02, 0x03:
		if _, err := btcec.ParsePubKey(pubKey); err != nil {
			return [20]byte{}, ErrInvalidKeyEncoding
		}
	case ed25519crypto.PublicKeyPrefix:
		// Ed25519 keys are opaque 32-byte points behind the marker; the
		// ledger accepts any such encoding.
	default:
		return [20]byte{}, ErrInvalidKeyEncoding
	}

	return crypto.Sha256RipeMD160(pubKey), nil
}

// EncodeAccountID encodes a 20-byte account ID as a classic r-address.
func EncodeAccountID(accountID [20]byte) string {
	return Base58CheckEncode(accountID[:], AccountIDPrefix)
}

// EncodeClassicAddressFromPublicKey derives the account ID from a public
// key and encodes it as a classic address in one step.
func EncodeClassicAddressFromPublicKey(pubKey []byte) (string, error) {
	accountID, err := AccountIDFromPublicKey(pubKey)
	if err != nil {
		return "", err
	}
	return EncodeAccountID(accountID), nil
}

// DecodeClassicAddressToAccountID decodes a classic r-address back into
// its 20-byte account ID.
func DecodeClassicAddressToAccountID(address string) ([20]byte, error) {
	payload, err := Base58CheckDecode(address, AccountIDPrefix)
	if err != nil {
		return [20]byte{}, err
	}
	if len(payload) != accountIDLength {
		return [20]byte{}, ErrInvalidAddressEncoding
	}

	var accountID [20]byte
	copy(accountID[:], payload)
	return accountID, nil
}

// EncodeAccountPublicKey encodes a 33-byte account public key in its
// base58 text form ('a...').
func EncodeAccountPublicKey(pubKey []byte) (string, error) {
	if len(pubKey) != publicKeyLength {
		return "", ErrInvalidKeyEncoding
	}
	return Base58CheckEncode(pubKey, AccountPublicKeyPrefix), nil
}

// DecodeAccountPublicKey decodes a base58 account public key.
func DecodeAccountPublicKey(encoded string) ([]byte, error) {
	payload, err := Base58CheckDecode(encoded, AccountPublicKeyPrefix)
	if err != nil {
		return nil, err
	}
	if len(payload) != publicKeyLength {
		return nil, ErrInvalidAddressEncoding
	}
	return payload, nil
}
