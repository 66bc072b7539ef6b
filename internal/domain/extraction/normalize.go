package extraction

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalize converts text to NFC. OCR engines and PDF text layers emit Vietnamese
// diacritics both precomposed and as combining sequences; keyword lists are NFC.
func normalize(s string) string {
	return norm.NFC.String(s)
}

// splitLines normalizes text and splits it into logical lines.
func splitLines(text string) []string {
	return strings.Split(normalize(text), "\n")
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
