package addresscodec

import "encoding/binary"

// X-address two-byte prefixes. They were chosen so that the encoded text
// always starts with 'X' (mainnet) or 'T' (testnet).
var (
	xAddressMainnetPrefix = []byte{0x05, 0x44}
	xAddressTestnetPrefix = []byte{0x04, 0x93}
)

const (
	xAddressPayloadLength = 29 // accountID(20) + flag(1) + tag(8)

	tagFlagNone  byte = 0x00
	tagFlag32Bit byte = 0x01
)

// EncodeXAddress packs an account ID and an optional destination tag into
// the extended address format.
func EncodeXAddress(accountID [20]byte, tag *uint32, testnet bool) string {
	payload := make([]byte, 0, xAddressPayloadLength)
	payload = append(payload, accountID[:]...)

	if tag != nil {
		payload = append(payload, tagFlag32Bit)
		var tagBytes [8]byte
		binary.LittleEndian.PutUint32(tagBytes[:4], *tag)
		payload = append(payload, tagBytes[:]...)
	} else {
		payload = append(payload, tagFlagNone)
		payload = append(payload, make([]byte, 8)...)
	}

	prefix := xAddressMainnetPrefix
	if testnet {
		prefix = xAddressTestnetPrefix
	}
	return Base58CheckEncode(payload, prefix...)
}

// DecodeXAddress unpacks an extended address into its account ID, optional
// destination tag and network flag.
func DecodeXAddress(address string) (accountID [20]byte, tag *uint32, testnet bool, err error) {
	var payload []byte
	if payload, err = Base58CheckDecode(address, xAddressMainnetPrefix...); err == nil {
		testnet = false
	} else if payload, err = Base58CheckDecode(address, xAddressTestnetPrefix...); err == nil {
		testnet = true
	} else {
		return [20]byte{}, nil, false, ErrInvalidAddressEncoding
	}

	if len(payload) != xAddressPayloadLength {
		return [20]byte{}, nil, false, ErrInvalidAddressEncoding
	}

	copy(accountID[:], payload[:accountIDLength])
	flag := payload[accountIDLength]
	tagBytes := payload[accountIDLength+1:]

	switch flag {
	case tagFlagNone:
		for _, b := range tagBytes {
			if b != 0 {
				return [20]byte{}, nil, false, ErrInvalidAddressEncoding
			}
		}
	case tagFlag32Bit:
		if binary.LittleEndian.Uint32(tagBytes[4:]) != 0 {
			return [20]byte{}, nil, false, ErrInvalidAddressEncoding
		}
		value := binary.LittleEndian.Uint32(tagBytes[:4])
		tag = &value
	default:
		return [20]byte{}, nil, false, ErrInvalidAddressEncoding
	}

	return accountID, tag, testnet, nil
}
