package nft

import (
	"encoding/hex"
	"strings"
)

const ipfsGateway = "https://ipfs.io/ipfs/"

// EncodeURI hex-encodes a token URI for inclusion in a mint transaction.
func EncodeURI(uri string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(uri)))
}

// DecodeURI decodes the hex-encoded URI carried in ledger objects. Invalid
// hex yields an empty string; URIs are cosmetic and must not fail a sync.
func DecodeURI(hexURI string) string {
	decoded, err := hex.DecodeString(hexURI)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// NormalizeURI rewrites ipfs URIs and bare CIDs to a public gateway URL so
// callers can fetch token content over HTTP. Other schemes pass through.
func NormalizeURI(uri string) string {
	switch {
	case uri == "":
		return ""
	case strings.HasPrefix(uri, "ipfs://"):
		return ipfsGateway + strings.TrimPrefix(uri, "ipfs://")
	case strings.Contains(uri, "://"):
		return uri
	default:
		return ipfsGateway + uri
	}
}
