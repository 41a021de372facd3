package auth

import (
	"strings"

	"golang.org/x/crypto/sha3"
)

// ValidAddress reports whether s looks like an Ethereum address. Mixed-case
// input must additionally carry a correct EIP-55 checksum.
func ValidAddress(s string) bool {
	if !wellFormedAddress(s) {
		return false
	}
	hex := s[2:]
	if hex == strings.ToLower(hex) || hex == strings.ToUpper(hex) {
		return true
	}
	return ChecksumAddress(s) == s
}

// NormalizeAddress lowercases an address for use as a map key. Addresses are
// compared case-insensitively everywhere in this codebase.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ChecksumAddress returns the EIP-55 mixed-case form of an address, or ""
// if the input is not well formed.
func ChecksumAddress(s string) string {
	if !wellFormedAddress(s) {
		return ""
	}
	hex := strings.ToLower(s[2:])
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(hex))
	hash := h.Sum(nil)

	out := make([]byte, len(hex))
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if c >= 'a' && c <= 'f' {
			// Uppercase when the corresponding hash nibble is >= 8.
			nibble := hash[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}

func wellFormedAddress(s string) bool {
	if len(s) != 42 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
