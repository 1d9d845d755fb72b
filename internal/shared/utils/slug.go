package utils

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
	// đ/Đ không có dạng decomposed trong Unicode
	strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "D")
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomSource is the subset of *rand.Rand the slug suffix needs.
type RandomSource interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// DefaultRandomSource uses the goroutine-safe top-level math/rand functions.
func DefaultRandomSource() RandomSource { return globalSource{} }

// GenerateSlug lowercases input, strips diacritics and joins words with hyphens.
// "Nguyễn Nhật Ánh" → "nguyen-nhat-anh"
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(ascii)

	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	normalized := repeatedHyphen.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// RemoveDiacritics decomposes input (NFD) and drops combining marks.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strokeReplacer.Replace(input))
	if err != nil {
		return input
	}
	return out
}

// RandomSuffix returns n base-36 characters drawn from src.
func RandomSuffix(src RandomSource, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36[src.Intn(len(base36))])
	}
	return b.String()
}

// UniqueSlug appends a random suffix to the title slug: "my-first-post-k3x9z0".
func UniqueSlug(title string, src RandomSource, suffixLen int) string {
	suffix := RandomSuffix(src, suffixLen)
	base := GenerateSlug(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
