package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexToBytesRoundTrip(t *testing.T) {
	for _, h := range []string{
		"deadbeef",
		"DEADBEEF",
		"0xDeadBeef",
		"0XDEADBEEF",
		strings.Repeat("a1", 32),
	} {
		b, err := HexToBytes(h)
		assert.Nil(t, err)
		assert.Equal(t, NormalizeHash(h), BytesToHex(b))
	}
}

func TestHexToBytesOddLength(t *testing.T) {
	_, err := HexToBytes("abc")
	assert.NotNil(t, err)

	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "abc", formatErr.Input)
}

func TestHexToBytesInvalidChars(t *testing.T) {
	_, err := HexToBytes("zzzz")
	assert.NotNil(t, err)
}

func TestNormalizeHash(t *testing.T) {
	assert.Equal(t, "abcdef", NormalizeHash("0xABCdef"))
	assert.Equal(t, "abcdef", NormalizeHash("0XABCDEF"))
	assert.Equal(t, "abcdef", NormalizeHash("ABCDEF"))
}

func TestIsValidHash(t *testing.T) {
	assert.True(t, IsValidHash256(strings.Repeat("ab", 32)))
	assert.True(t, IsValidHash256("0x"+strings.Repeat("AB", 32)))
	assert.True(t, IsValidHash256("0X"+strings.Repeat("ab", 32)))
	assert.False(t, IsValidHash256(strings.Repeat("ab", 31)))
	assert.False(t, IsValidHash256(strings.Repeat("zz", 32)))

	assert.True(t, IsValidHash160(strings.Repeat("cd", 20)))
	assert.False(t, IsValidHash160(strings.Repeat("cd", 32)))
}

func TestTruncateHash(t *testing.T) {
	hash := strings.Repeat("ab", 32)
	assert.Equal(t, "abababab...abababab", TruncateHash(hash, 8))

	// at most 2n characters stays unchanged
	assert.Equal(t, "abcdef", TruncateHash("abcdef", 3))
	assert.Equal(t, "abcdef", TruncateHash("abcdef", 0))
}
