// Package secp256k1 implements XRPL key derivation and signing for the
// secp256k1 algorithm. Account keys are derived from a 16-byte family seed
// using the scheme rippled documents for classic key pairs: a root key pair
// is derived from the seed, then the account key pair at index zero is the
// sum of the root key and an intermediate key derived from the root public
// key.
package secp256k1

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/common"
)

var (
	// ErrUnusableSeed is returned when no valid scalar can be derived from
	// the seed. The probability is negligible for random seeds.
	ErrUnusableSeed = errors.New("secp256k1: seed produces no usable key")

	// ErrInvalidSignature is returned for malformed DER signatures.
	ErrInvalidSignature = errors.New("secp256k1: invalid signature format")
)

// KeyPair is a derived XRPL account key pair.
type KeyPair struct {
	priv *secp256k1.PrivateKey
	pub  []byte // compressed SEC1, 33 bytes
}

// derivedScalar hashes the inputs with an incrementing 32-bit suffix until
// the result is a valid non-zero scalar for the curve.
func derivedScalar(prefix []byte) (*big.Int, error) {
	order := secp256k1.S256().N
	suffix := make([]byte, 4)
	for i := uint32(0); i < 0xFFFFFFFF; i++ {
		binary.BigEndian.PutUint32(suffix, i)
		candidate := crypto.Sha512Half(prefix, suffix)
		k := new(big.Int).SetBytes(candidate[:])
		if k.Sign() > 0 && k.Cmp(order) < 0 {
			return k, nil
		}
	}
	return nil, ErrUnusableSeed
}

// DeriveKeyPair derives the account key pair at index zero from a family
// seed.
func DeriveKeyPair(seed [16]byte) (*KeyPair, error) {
	rootScalar, err := derivedScalar(seed[:])
	if err != nil {
		return nil, err
	}

	var rootBytes [32]byte
	rootScalar.FillBytes(rootBytes[:])
	rootPriv := secp256k1.PrivKeyFromBytes(rootBytes[:])
	rootPub := rootPriv.PubKey().SerializeCompressed()

	// Intermediate key: hash of root public key and the account index.
	accountIndex := make([]byte, 4)
	binary.BigEndian.PutUint32(accountIndex, 0)
	intermediate, err := derivedScalar(append(rootPub, accountIndex...))
	if err != nil {
		return nil, err
	}

	order := secp256k1.S256().N
	accountScalar := new(big.Int).Add(rootScalar, intermediate)
	accountScalar.Mod(accountScalar, order)
	if accountScalar.Sign() == 0 {
		return nil, ErrUnusableSeed
	}

	var accountBytes [32]byte
	accountScalar.FillBytes(accountBytes[:])
	priv := secp256k1.PrivKeyFromBytes(accountBytes[:])

	return &KeyPair{
		priv: priv,
		pub:  priv.PubKey().SerializeCompressed(),
	}, nil
}

// Public returns the 33-byte compressed public key.
func (k *KeyPair) Public() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

// Sign signs the given digest and returns a DER-encoded signature.
// XRPL secp256k1 signatures are computed over Sha512Half of the signing
// data; the caller provides that digest.
func (k *KeyPair) Sign(digest [32]byte) []byte {
	sig := secpecdsa.Sign(k.priv, digest[:])
	return sig.Serialize()
}

// Verify checks a DER-encoded signature over digest against a compressed
// public key.
func Verify(pub []byte, digest [32]byte, der []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}
	sig, err := secpecdsa.ParseDERSignature(der)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pubKey)
}
