package platform

import "crypto/rand"

// alphabet is the 64-character set spec.md §4.2 specifies for temp-file
// suffixes: A-Z, a-z, 0-9, '-', '_'.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// RandomName returns prefix followed by 8 characters drawn from alphabet,
// each selected by masking a cryptographically random byte with 0x3F, per
// spec.md §4.2. Masking rather than rejection sampling is the spec's own
// recipe: a 6-bit mask over a 64-entry alphabet is exact, with no bias and
// no retry loop needed.
func RandomName(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on a supported OS does not fail in practice;
		// a non-random fallback here would violate the "cryptographically
		// strong" requirement, so we panic rather than silently degrade.
		panic("platform: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, 8)
	for i, b := range buf {
		out[i] = alphabet[b&0x3F]
	}
	return prefix + string(out)
}
