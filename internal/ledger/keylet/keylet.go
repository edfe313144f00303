// Package keylet computes NFTokenPage index keys. Unlike most ledger
// entries, NFT pages are not keyed by a namespace hash: the 256-bit key is
// the owner's account ID followed by the low 96 bits of a token ID, so the
// page covering any token range can be addressed directly.
package keylet

// Key is a 256-bit ledger index.
type Key [32]byte

const suffixLength = 12

// NFTokenPageMax returns the synthetic maximum page key for an account:
// the account ID followed by an all-ones suffix. The page whose range
// contains this key is the last page of the owner's token list, which
// anchors a backward traversal.
func NFTokenPageMax(accountID [20]byte) Key {
	var key Key
	copy(key[:20], accountID[:])
	for i := 20; i < 32; i++ {
		key[i] = 0xFF
	}
	return key
}

// NFTokenPageMin returns the lowest possible page key for an account.
func NFTokenPageMin(accountID [20]byte) Key {
	var key Key
	copy(key[:20], accountID[:])
	return key
}

// NFTokenPage returns the key of the page that would hold the given token
// for the given owner: account ID plus the token's low 96 bits.
func NFTokenPage(accountID [20]byte, tokenID [32]byte) Key {
	var key Key
	copy(key[:20], accountID[:])
	copy(key[20:], tokenID[32-suffixLength:])
	return key
}

// OwnedBy reports whether a page key belongs to the given account. Every
// key in an account's page chain shares the account's 160-bit prefix; a
// continuation key outside that prefix indicates a corrupt index.
func (k Key) OwnedBy(accountID [20]byte) bool {
	for i := 0; i < 20; i++ {
		if k[i] != accountID[i] {
			return false
		}
	}
	return true
}
