package prose

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`)

// Normalize applies NFC and folds typographic quotes to their ASCII forms.
func Normalize(s string) string {
	return apostrophes.Replace(norm.NFC.String(s))
}

// Lower lowercases s with English casing rules. A Caser is not safe for
// concurrent use, so one is built per call.
func Lower(s string) string {
	return cases.Lower(language.English).String(s)
}

// Canonical produces the lookup key for an entity or fact: normalized,
// lowercased, whitespace collapsed, leading article stripped.
func Canonical(s string) string {
	fields := strings.Fields(Lower(Normalize(s)))
	for len(fields) > 1 && IsArticle(fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// ContentHash returns the first 16 hex characters of the SHA-256 of s.
func ContentHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}

// ContainsWord reports whether phrase occurs in haystack on word boundaries.
// Both arguments are expected in canonical (lowercase) form.
func ContainsWord(haystack, phrase string) bool {
	if phrase == "" {
		return false
	}
	from := 0
	for {
		i := strings.Index(haystack[from:], phrase)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(phrase)
		if (i == 0 || !isWordByte(haystack[i-1])) && (end == len(haystack) || !isWordByte(haystack[end])) {
			return true
		}
		from = i + 1
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '-' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// CountWords counts words in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
