// Package ed25519 implements XRPL key derivation and signing for the
// Ed25519 algorithm. Unlike secp256k1, Ed25519 signatures are computed over
// the raw signing data, and public keys carry a 0xED marker prefix on the
// ledger.
package ed25519

import (
	"bytes"
	"crypto/ed25519"

	crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/common"
)

// PublicKeyPrefix marks Ed25519 public keys in XRPL serializations,
// distinguishing them from 33-byte compressed secp256k1 keys.
const PublicKeyPrefix byte = 0xED

// KeyPair is a derived XRPL account key pair.
type KeyPair struct {
	priv ed25519.PrivateKey
	pub  []byte // 33 bytes, 0xED prefix
}

// DeriveKeyPair derives the account key pair from a family seed. The
// Ed25519 private scalar is Sha512Half of the seed bytes.
func DeriveKeyPair(seed [16]byte) *KeyPair {
	keyMaterial := crypto.Sha512Half(seed[:])
	priv := ed25519.NewKeyFromSeed(keyMaterial[:])

	pub := make([]byte, 0, 33)
	pub = append(pub, PublicKeyPrefix)
	pub = append(pub, priv.Public().(ed25519.PublicKey)...)

	return &KeyPair{priv: priv, pub: pub}
}

// Public returns the 33-byte prefixed public key.
func (k *KeyPair) Public() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

// Sign signs the raw signing data.
func (k *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// Verify checks a signature over message against a 33-byte prefixed public
// key.
func Verify(pub []byte, message, sig []byte) bool {
	if len(pub) != 33 || pub[0] != PublicKeyPrefix {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[1:]), message, sig)
}

// IsPrefixed reports whether a 33-byte public key carries the Ed25519
// marker.
func IsPrefixed(pub []byte) bool {
	return len(pub) == 33 && bytes.HasPrefix(pub, []byte{PublicKeyPrefix})
}
