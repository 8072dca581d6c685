// Package fingerprint derives content-based cache keys for fragments.
//
// A fingerprint is a sha256 digest of the fragment's normalized content.
// Normalization folds case and collapses whitespace so near-duplicate
// fragments (trailing newlines, CRLF vs LF, repeated spaces) collide to the
// same key. Page numbers and positions are deliberately excluded: identical
// text on different pages shares one classification.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize returns the canonical form of fragment content used for keying:
// lower-cased, with every whitespace run collapsed to a single space and
// edges trimmed.
func Normalize(content string) string {
	return strings.ToLower(strings.Join(strings.Fields(content), " "))
}

// Fingerprint computes the hex-encoded sha256 digest of the normalized
// content. Two fragments with equal fingerprints are interchangeable for
// classification purposes.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(Normalize(content)))
	return hex.EncodeToString(sum[:])
}
