package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/pairdeck/pairdeck/internal/parser"
)

// Normalize concatenates the entry's content after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings for each
// field before joining them.
func Normalize(e parser.Entry) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	k := normalizePart(e.Key)
	v := normalizePart(e.Value)

	// We join with a newline to ensure separation between fields,
	// preventing accidental joining of words. e.g. "key" and "value"
	// becoming "keyvalue".
	return strings.Join([]string{k, v}, "\n")
}

// Sum takes an entry, normalizes it, and returns its SHA-256 hash as a
// hex string. Two entries that differ only in case or surrounding
// whitespace produce the same fingerprint.
func Sum(e parser.Entry) string {
	normalized := Normalize(e)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
