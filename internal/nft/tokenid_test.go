package nft

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := ParseTokenID("000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65")
		require.NoError(t, err)
		assert.Equal(t, "000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65", id.String())
	})

	t.Run("lower case accepted", func(t *testing.T) {
		lower := strings.ToLower("000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65")
		id, err := ParseTokenID(lower)
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(lower), id.String())
	})

	t.Run("malformed", func(t *testing.T) {
		testcases := []struct {
			name  string
			input string
		}{
			{name: "empty", input: ""},
			{name: "63 chars", input: strings.Repeat("0", 63)},
			{name: "65 chars", input: strings.Repeat("0", 65)},
			{name: "non-hex", input: strings.Repeat("0", 63) + "G"},
		}

		for _, tc := range testcases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ParseTokenID(tc.input)
				assert.ErrorIs(t, err, ErrMalformedTokenID)
			})
		}
	})
}

func TestDecodeFields(t *testing.T) {
	// Real mainnet token ID from the rippled documentation: flags 11,
	// fee 314, sequence 3429. The taxon field on the wire is 0x08C3098E;
	// undoing the sequence-keyed cipher yields 0xBCAD02CB.
	id, err := ParseTokenID("000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65")
	require.NoError(t, err)

	token := Decode(id)
	assert.Equal(t, uint16(0x000B), token.Flags)
	assert.Equal(t, uint16(314), token.TransferFee)
	assert.Equal(t, uint32(0xBCAD02CB), token.Taxon)
	assert.Equal(t, uint32(3429), token.Sequence)
	assert.True(t, token.IsBurnable())
	assert.True(t, token.IsTransferable())
	assert.True(t, token.OnlyXRP())
}

func TestEncodeDecodeInverse(t *testing.T) {
	ids := []string{
		"000B013A95F14B0044F78A264E41713C64B5F89242540EE208C3098E00000D65",
		"0001000000000000000000000000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000000",
		"FFFF3C42C7BAE968EA4B31C43CFBD4089B0A0FAB16EDBB0BFFFFFFFFFFFFFFFF",
		"0008000044CAF362635003E9D565979EE87A1668A1FFB6FB0F3D4613000016D3",
	}

	for _, raw := range ids {
		id, err := ParseTokenID(raw)
		require.NoError(t, err)
		assert.Equal(t, id, Encode(Decode(id)), "round trip for %s", raw)
	}
}

func TestTaxonCipherSymmetry(t *testing.T) {
	// The cipher is an XOR and must be its own inverse for any sequence.
	for _, seq := range []uint32{0, 1, 3429, 0xFFFFFFFF} {
		for _, taxon := range []uint32{0, 1, 146999694, 0xFFFFFFFF} {
			assert.Equal(t, taxon, cipheredTaxon(seq, cipheredTaxon(seq, taxon)))
		}
	}
}

func TestDecodeMintedToken(t *testing.T) {
	// A token minted with taxon 0 at sequence 1 stores the ciphered field
	// yet decodes back to taxon 0.
	minted := Encode(Token{Flags: 1, Sequence: 1, Taxon: 0})

	token := Decode(minted)
	assert.Equal(t, uint16(1), token.Flags)
	assert.Equal(t, uint16(0), token.TransferFee)
	assert.Equal(t, uint32(1), token.Sequence)
	assert.Equal(t, uint32(0), token.Taxon)
	assert.True(t, token.IsBurnable())
}

func TestURIHelpers(t *testing.T) {
	t.Run("hex round trip", func(t *testing.T) {
		uri := "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
		assert.Equal(t, uri, DecodeURI(EncodeURI(uri)))
	})

	t.Run("invalid hex is empty", func(t *testing.T) {
		assert.Equal(t, "", DecodeURI("ZZ"))
	})

	t.Run("normalize", func(t *testing.T) {
		assert.Equal(t, "", NormalizeURI(""))
		assert.Equal(t,
			"https://ipfs.io/ipfs/bafy123",
			NormalizeURI("ipfs://bafy123"))
		assert.Equal(t,
			"https://ipfs.io/ipfs/bafy123",
			NormalizeURI("bafy123"))
		assert.Equal(t,
			"https://example.com/meta.json",
			NormalizeURI("https://example.com/meta.json"))
	})
}
