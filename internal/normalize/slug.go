package normalize

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	slugFallback   = "portfolio"
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 5
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	separatorRun = regexp.MustCompile(`[\s_-]+`)
)

// slugify lowercases a single part and reduces it to hyphen-separated words
func slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = separatorRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Slug builds a URL slug from the candidate's name and title plus a short
// random suffix. Uniqueness is probabilistic: there is no registry lookup, the
// suffix alone keeps collisions unlikely and the records table's UNIQUE
// constraint catches the rest.
func Slug(fullName, title string) string {
	base := slugify(fullName)
	if t := slugify(title); base != "" && t != "" {
		base = base + "-" + t
	} else if base == "" {
		base = slugify(title)
	}
	if base == "" {
		base = slugFallback
	}
	return base + "-" + randomSuffix()
}

// randomSuffix returns suffixLength characters drawn from a base36 alphabet
// using crypto/rand
func randomSuffix() string {
	var b strings.Builder
	max := big.NewInt(int64(len(suffixAlphabet)))
	for range suffixLength {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte(suffixAlphabet[0])
			continue
		}
		b.WriteByte(suffixAlphabet[n.Int64()])
	}
	return b.String()
}
