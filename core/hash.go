package core

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	hash256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	hash160Pattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
)

// FormatError reports a hex string that cannot be decoded.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed hex %q: %s", e.Input, e.Reason)
}

func stripHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// HexToBytes decodes a hex string, accepting an optional 0x prefix in
// either case. Odd-length input fails with a FormatError.
func HexToBytes(s string) ([]byte, error) {
	h := stripHexPrefix(s)
	if len(h)%2 != 0 {
		return nil, &FormatError{Input: s, Reason: "odd length"}
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, &FormatError{Input: s, Reason: err.Error()}
	}
	return b, nil
}

// BytesToHex is the inverse of HexToBytes. It always emits lower case,
// so BytesToHex(HexToBytes(h)) == NormalizeHash(h) for any valid h.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// NormalizeHash lower-cases a hex hash and strips any 0x prefix. Every
// hash comparison and set-membership check goes through this first.
func NormalizeHash(s string) string {
	return stripHexPrefix(strings.ToLower(s))
}

// IsValidHash256 reports whether s is a 64-character hex string.
func IsValidHash256(s string) bool {
	return hash256Pattern.MatchString(stripHexPrefix(s))
}

// IsValidHash160 reports whether s is a 40-character hex string.
func IsValidHash160(s string) bool {
	return hash160Pattern.MatchString(stripHexPrefix(s))
}

// TruncateHash shortens a hash to "first-n...last-n" for display. Strings
// of 2n characters or fewer are returned unchanged.
func TruncateHash(s string, n int) string {
	if n <= 0 || len(s) <= 2*n {
		return s
	}
	return s[:n] + "..." + s[len(s)-n:]
}
