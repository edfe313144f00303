package addresscodec

// Algorithm identifies the signing algorithm a family seed targets.
type Algorithm int

const (
	AlgorithmSECP256K1 Algorithm = iota
	AlgorithmED25519
)

// ed25519SeedPrefix makes encoded Ed25519 seeds start with "sEd".
var ed25519SeedPrefix = []byte{0x01, 0xE1, 0x4B}

const seedLength = 16

// EncodeSeed encodes 16 bytes of seed entropy for the given algorithm.
func EncodeSeed(entropy [16]byte, algorithm Algorithm) (string, error) {
	switch algorithm {
	case AlgorithmED25519:
		return Base58CheckEncode(entropy[:], ed25519SeedPrefix...), nil
	case AlgorithmSECP256K1:
		return Base58CheckEncode(entropy[:], FamilySeedPrefix), nil
	default:
		return "", ErrInvalidAddressEncoding
	}
}

// DecodeSeed decodes a family seed string, returning the entropy and the
// algorithm it was encoded for.
func DecodeSeed(seed string) ([16]byte, Algorithm, error) {
	var entropy [16]byte

	if payload, err := Base58CheckDecode(seed, ed25519SeedPrefix...); err == nil {
		if len(payload) != seedLength {
			return entropy, 0, ErrInvalidAddressEncoding
		}
		copy(entropy[:], payload)
		return entropy, AlgorithmED25519, nil
	}

	payload, err := Base58CheckDecode(seed, FamilySeedPrefix)
	if err != nil {
		return entropy, 0, err
	}
	if len(payload) != seedLength {
		return entropy, 0, ErrInvalidAddressEncoding
	}
	copy(entropy[:], payload)
	return entropy, AlgorithmSECP256K1, nil
}
