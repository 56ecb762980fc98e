package core

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
)

// mainnet P2PKH version byte
const addressVersion = 76

func TestAddressKeyHash(t *testing.T) {
	keyHash := []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09,
		0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13,
	}
	addr := base58.CheckEncode(keyHash, addressVersion)

	got, err := AddressKeyHash(addr)
	assert.Nil(t, err)
	assert.Equal(t, keyHash, got)
}

func TestAddressKeyHashRejectsBadInput(t *testing.T) {
	_, err := AddressKeyHash("not-an-address")
	assert.NotNil(t, err)

	// valid base58-check but wrong payload length
	addr := base58.CheckEncode([]byte{0x01, 0x02, 0x03}, addressVersion)
	_, err = AddressKeyHash(addr)
	assert.NotNil(t, err)
}

func TestFallbackKeyHash(t *testing.T) {
	regHash, err := HexToBytes("aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11aa11")
	assert.Nil(t, err)

	got := FallbackKeyHash(regHash)
	assert.Len(t, got, 20)
	assert.Equal(t, btcutil.Hash160(regHash), got)
}

func TestToDuffs(t *testing.T) {
	for _, tt := range []struct {
		coins float64
		duffs int64
	}{
		{0, 0},
		{1, 100000000},
		{10.5, 1050000000},
		{2.345, 234500000},
	} {
		got, err := ToDuffs(tt.coins)
		assert.Nil(t, err)
		assert.Equal(t, tt.duffs, got)
	}
}
