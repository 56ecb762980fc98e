package core

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
)

// AddressKeyHash decodes a base58-check address to its embedded 20-byte
// key hash.
func AddressKeyHash(addr string) ([]byte, error) {
	payload, _, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "decode address %s", addr)
	}
	if len(payload) != 20 {
		return nil, errors.Errorf("address %s payload is %d bytes, want 20", addr, len(payload))
	}
	return payload, nil
}

// FallbackKeyHash derives a voting key hash for registry entries that
// carry no voting address, by hashing the registration hash bytes.
func FallbackKeyHash(registrationHash []byte) []byte {
	return btcutil.Hash160(registrationHash)
}

// ToDuffs converts a major-unit coin value to duffs (1e-8), rounding
// half away from zero.
func ToDuffs(coins float64) (int64, error) {
	amt, err := btcutil.NewAmount(coins)
	if err != nil {
		return 0, errors.Wrap(err, "convert amount")
	}
	return int64(amt), nil
}
