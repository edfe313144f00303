package crypto

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// Sha512Half returns the first 32 bytes of a SHA-512 hash of the
// concatenated inputs. This is the hash the XRPL uses for ledger keys,
// transaction IDs and signing digests.
func Sha512Half(inputs ...[]byte) [32]byte {
	h := sha512.New()
	for _, in := range inputs {
		h.Write(in)
	}
	var result [32]byte
	copy(result[:], h.Sum(nil)[:32])
	return result
}

// Sha256RipeMD160 computes RIPEMD160(SHA256(in)), the XRPL account ID hash.
func Sha256RipeMD160(in []byte) [20]byte {
	inner := sha256.Sum256(in)
	outer := ripemd160.New()
	outer.Write(inner[:])
	var result [20]byte
	copy(result[:], outer.Sum(nil))
	return result
}

// DoubleSha256 computes SHA256(SHA256(in)). Base58check payloads are
// checksummed with the first four bytes of this hash.
func DoubleSha256(in []byte) [32]byte {
	first := sha256.Sum256(in)
	return sha256.Sum256(first[:])
}
