package wallet

import (
	"encoding/hex"
	"errors"
	"strings"

	binarycodec "github.com/Peersyst/xrpl-go/binary-codec"

	addresscodec "github.com/LeJamon/goXRPLwallet/internal/codec/address-codec"
	ed25519crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/algorithms/ed25519"
	secp256k1crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/algorithms/secp256k1"
	crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/common"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

// txHashPrefix is "TXN\x00", prepended before hashing a signed blob.
var txHashPrefix = []byte{0x54, 0x58, 0x4E, 0x00}

// Signer holds one account's key material and produces signed transaction
// blobs. secp256k1 signs the sha512-half digest of the signing payload as
// DER; ed25519 signs the payload bytes directly.
type Signer struct {
	algorithm addresscodec.Algorithm
	entropy   [16]byte
	secp      *secp256k1crypto.KeyPair
	ed        *ed25519crypto.KeyPair
	address   string
	publicKey []byte
}

// NewSignerFromSeed derives a signer from an encoded family seed. The seed
// encoding selects the algorithm.
func NewSignerFromSeed(seed string) (*Signer, error) {
	entropy, algorithm, err := addresscodec.DecodeSeed(seed)
	if err != nil {
		return nil, err
	}
	return newSigner(entropy, algorithm)
}

// NewSignerFromPassphrase derives a signer from a passphrase: the entropy
// is the first 16 bytes of the passphrase's sha512-half.
func NewSignerFromPassphrase(passphrase string, algorithm addresscodec.Algorithm) (*Signer, error) {
	digest := crypto.Sha512Half([]byte(passphrase))
	var entropy [16]byte
	copy(entropy[:], digest[:16])
	return newSigner(entropy, algorithm)
}

func newSigner(entropy [16]byte, algorithm addresscodec.Algorithm) (*Signer, error) {
	s := &Signer{algorithm: algorithm, entropy: entropy}
	switch algorithm {
	case addresscodec.AlgorithmED25519:
		s.ed = ed25519crypto.DeriveKeyPair(entropy)
		s.publicKey = s.ed.Public()
	case addresscodec.AlgorithmSECP256K1:
		pair, err := secp256k1crypto.DeriveKeyPair(entropy)
		if err != nil {
			return nil, err
		}
		s.secp = pair
		s.publicKey = pair.Public()
	default:
		return nil, errors.New("wallet: unknown key algorithm")
	}
	address, err := addresscodec.EncodeClassicAddressFromPublicKey(s.publicKey)
	if err != nil {
		return nil, err
	}
	s.address = address
	return s, nil
}

// Address returns the signer's classic address.
func (s *Signer) Address() string { return s.address }

// PublicKey returns the hex form used in SigningPubKey fields.
func (s *Signer) PublicKey() string {
	return strings.ToUpper(hex.EncodeToString(s.publicKey))
}

// Seed returns the signer's entropy re-encoded as a family seed.
func (s *Signer) Seed() (string, error) {
	return addresscodec.EncodeSeed(s.entropy, s.algorithm)
}

// Algorithm returns the signing algorithm the seed selected.
func (s *Signer) Algorithm() addresscodec.Algorithm { return s.algorithm }

// Sign validates, signs and serializes a transaction. It returns the
// signed blob ready for submission and the transaction hash the network
// will report for it.
func (s *Signer) Sign(tx ledger.Tx) (blob string, hash string, err error) {
	if err := tx.Validate(); err != nil {
		return "", "", err
	}
	common := ledger.Common(tx)
	if common.Account != s.address {
		return "", "", errors.New("wallet: transaction account does not match signing key")
	}
	common.SigningPubKey = s.PublicKey()
	common.TxnSignature = ""

	fields, err := ledger.Flatten(tx)
	if err != nil {
		return "", "", err
	}
	payloadHex, err := binarycodec.EncodeForSigning(fields)
	if err != nil {
		return "", "", err
	}
	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		return "", "", err
	}

	var signature []byte
	if s.ed != nil {
		signature = s.ed.Sign(payload)
	} else {
		signature = s.secp.Sign(crypto.Sha512Half(payload))
	}
	common.TxnSignature = strings.ToUpper(hex.EncodeToString(signature))

	fields, err = ledger.Flatten(tx)
	if err != nil {
		return "", "", err
	}
	blob, err = binarycodec.Encode(fields)
	if err != nil {
		return "", "", err
	}
	hash, err = TxHash(blob)
	if err != nil {
		return "", "", err
	}
	return blob, hash, nil
}

// TxHash computes the network hash of a signed transaction blob.
func TxHash(blobHex string) (string, error) {
	raw, err := hex.DecodeString(blobHex)
	if err != nil {
		return "", err
	}
	digest := crypto.Sha512Half(txHashPrefix, raw)
	return strings.ToUpper(hex.EncodeToString(digest[:])), nil
}
