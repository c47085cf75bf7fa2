// Package textsig computes normalized-text signatures used to deduplicate
// generated questions and stub payloads.
package textsig

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize lowercases text and collapses every whitespace run to a single
// space. Signature equality is defined over this normal form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Of returns the hex-encoded SHA-256 digest of the normalized text.
// Two texts with equal signatures are treated as duplicates.
func Of(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
