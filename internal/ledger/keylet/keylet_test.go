package keylet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccountID(t *testing.T) [20]byte {
	t.Helper()
	raw, err := hex.DecodeString("B5F762798A53D543A014CAF8B297CFF8F2F937E8")
	require.NoError(t, err)
	var id [20]byte
	copy(id[:], raw)
	return id
}

func TestNFTokenPageMax(t *testing.T) {
	accountID := testAccountID(t)

	key := NFTokenPageMax(accountID)
	assert.Equal(t,
		"B5F762798A53D543A014CAF8B297CFF8F2F937E8FFFFFFFFFFFFFFFFFFFFFFFF",
		strings.ToUpper(hex.EncodeToString(key[:])))
}

func TestNFTokenPageMin(t *testing.T) {
	accountID := testAccountID(t)

	key := NFTokenPageMin(accountID)
	assert.Equal(t,
		"B5F762798A53D543A014CAF8B297CFF8F2F937E8000000000000000000000000",
		strings.ToUpper(hex.EncodeToString(key[:])))
}

func TestNFTokenPage(t *testing.T) {
	accountID := testAccountID(t)

	var tokenID [32]byte
	for i := range tokenID {
		tokenID[i] = byte(i)
	}

	key := NFTokenPage(accountID, tokenID)
	assert.Equal(t, accountID[:], key[:20])
	assert.Equal(t, tokenID[20:], key[20:])
}

func TestOwnedBy(t *testing.T) {
	accountID := testAccountID(t)

	assert.True(t, NFTokenPageMax(accountID).OwnedBy(accountID))
	assert.True(t, NFTokenPageMin(accountID).OwnedBy(accountID))

	var other [20]byte
	other[0] = 0x01
	assert.False(t, NFTokenPageMax(accountID).OwnedBy(other))
}
