package grammaticus

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Atone strips vowel-quantity marks (macrons, breves) and any other
// combining mark from s: "puellā" becomes "puella".
func Atone(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// deramiseReplacer converts Ramist spelling (j/v) to classical (i/u) and
// expands the ligatures æ and œ.
var deramiseReplacer = strings.NewReplacer(
	"J", "I",
	"j", "i",
	"v", "u",
	"V", "U",
	"\u00e6", "ae", // æ → ae
	"\u00c6", "Ae", // Æ → Ae
	"\u0153", "oe", // œ → oe
	"\u0152", "Oe", // Œ → Oe
)

// Deramise converts j→i, v→u and expands æ/œ in s.
func Deramise(s string) string {
	return deramiseReplacer.Replace(s)
}

// Normalize prepares a surface form for matching: surrounding space is
// trimmed, letters are lowercased and quantity marks removed. Spelling is
// otherwise kept, so stems containing v or j still round-trip.
func Normalize(s string) string {
	return Atone(strings.ToLower(strings.TrimSpace(s)))
}

// Fold returns the registry key for a stem: Normalize followed by Deramise,
// so "Iuli", "Juli" and "iūli" share one key.
func Fold(s string) string {
	return Deramise(Normalize(s))
}
