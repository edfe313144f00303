package addresscodec

import (
	"bytes"
	"math/big"

	crypto "github.com/LeJamon/goXRPLwallet/internal/crypto/common"
)

// rippleAlphabet is the base58 dictionary the XRPL uses. It differs from
// the Bitcoin alphabet, which is why a generic base58 library cannot be
// used here.
const rippleAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

const checksumLength = 4

var alphabetIndex = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(rippleAlphabet); i++ {
		idx[rippleAlphabet[i]] = int8(i)
	}
	return idx
}()

var base58Radix = big.NewInt(58)

// base58Encode encodes raw bytes with the ripple alphabet. Leading zero
// bytes become leading 'r' characters.
func base58Encode(input []byte) string {
	num := new(big.Int).SetBytes(input)
	mod := new(big.Int)

	var encoded []byte
	for num.Sign() > 0 {
		num.DivMod(num, base58Radix, mod)
		encoded = append(encoded, rippleAlphabet[mod.Int64()])
	}
	for _, b := range input {
		if b != 0 {
			break
		}
		encoded = append(encoded, rippleAlphabet[0])
	}

	// Reverse in place.
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}
	return string(encoded)
}

// base58Decode decodes a ripple-alphabet base58 string. It returns false
// when the input contains characters outside the alphabet.
func base58Decode(input string) ([]byte, bool) {
	num := new(big.Int)
	for i := 0; i < len(input); i++ {
		digit := alphabetIndex[input[i]]
		if digit < 0 {
			return nil, false
		}
		num.Mul(num, base58Radix)
		num.Add(num, big.NewInt(int64(digit)))
	}

	decoded := num.Bytes()

	// Restore leading zero bytes.
	var leading int
	for leading = 0; leading < len(input) && input[leading] == rippleAlphabet[0]; leading++ {
	}
	if leading > 0 {
		decoded = append(make([]byte, leading), decoded...)
	}
	return decoded, true
}

// Base58CheckEncode prepends a type prefix, appends the four-byte
// double-SHA256 checksum and base58 encodes the result.
func Base58CheckEncode(payload []byte, prefix ...byte) string {
	buf := make([]byte, 0, len(prefix)+len(payload)+checksumLength)
	buf = append(buf, prefix...)
	buf = append(buf, payload...)

	checksum := crypto.DoubleSha256(buf)
	buf = append(buf, checksum[:checksumLength]...)

	return base58Encode(buf)
}

// Base58CheckDecode decodes a base58check string and verifies both the
// checksum and the expected type prefix. It returns the payload without
// prefix and checksum.
func Base58CheckDecode(input string, prefix ...byte) ([]byte, error) {
	decoded, ok := base58Decode(input)
	if !ok {
		return nil, ErrInvalidAddressEncoding
	}
	if len(decoded) < len(prefix)+checksumLength {
		return nil, ErrInvalidAddressEncoding
	}

	body := decoded[:len(decoded)-checksumLength]
	checksum := crypto.DoubleSha256(body)
	if !bytes.Equal(checksum[:checksumLength], decoded[len(decoded)-checksumLength:]) {
		return nil, ErrInvalidAddressEncoding
	}
	if !bytes.HasPrefix(body, prefix) {
		return nil, ErrInvalidAddressEncoding
	}

	return body[len(prefix):], nil
}
