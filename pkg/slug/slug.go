// Copyright (c) 2026 Plume. All rights reserved.

// Package slug generates URL-safe identifiers from free-form titles.
//
// # Usage
//
// Slugs identify posts, pages, categories and tags in permalinks
// (e.g., "blog-post-title"). This package handles normalization, accent
// removal, character sanitization, the percent-encoded fallback for
// non-Latin titles, and collision suffixing.
package slug

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the maximum byte length of a slug after encoding. It matches the
// title length limit so an encoded slug never outgrows its column.
const MaxLen = 250

var (
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)

	// randomAlphabet is the character set for fallback slugs.
	randomAlphabet = []byte("abcdefghijklmnopqrstuvwxyz0123456789")
)

// Make converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Lowercases.
// 3. Rewrites '#' to 's' so "C#" becomes "cs" rather than "c".
// 4. Replaces every non-ASCII-alphanumeric run with a single hyphen.
// 5. Collapses hyphens, trims the ends, truncates to [MaxLen].
//
// Titles with no ASCII-representable characters (e.g. CJK) produce an empty
// slug; callers choose a fallback ([Encode] or [Random]) per entity type.
func Make(title string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, title)

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, "#", "s")

	result = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, result)

	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = strings.TrimRight(result[:MaxLen], "-")
	}

	return result
}

// Encode percent-encodes a title as UTF-8 bytes (uppercase hex), the slug
// form used when [Make] yields nothing. The result is not truncated; see
// [TruncateEncoded] and [HardTruncate] for the two boundary policies.
func Encode(title string) string {
	return url.QueryEscape(title)
}

// TruncateEncoded cuts an encoded slug to max bytes without leaving an
// incomplete %XX triplet at the boundary: a split escape is dropped entirely
// rather than emitted malformed.
func TruncateEncoded(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := s[:max]
	if idx := strings.LastIndex(cut, "%"); idx > max-3 {
		cut = cut[:idx]
	}

	return cut
}

// HardTruncate cuts s to max bytes with no regard for escape boundaries.
//
// Page slugs have always been cut this way, so a stored slug may end in a
// partial escape (a 30-char CJK title cuts to exactly 250 chars ending in
// "%E9%AA%"). Existing permalinks depend on it; do not "fix" this.
func HardTruncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Random returns n random lowercase alphanumeric characters, used as the
// taxonomy slug fallback when a title has no sluggable characters.
func Random(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomAlphabet[rand.Intn(len(randomAlphabet))]
	}
	return string(b)
}

// numericSuffix matches a trailing "-N" disambiguator.
var numericSuffix = regexp.MustCompile(`^(.*)-(\d+)$`)

// Unique resolves a candidate slug against its uniqueness scope.
//
// exists reports whether a slug is already taken within the scope. On
// collision the slug's trailing "-N" suffix is incremented (a bare slug
// gets "-2"), probing sequentially until free: "title" resolves to
// "title-2", and "title-2" resolves to "title-3", never "title-2-2". With
// no intervening writes the same inputs always resolve to the same slug.
// Concurrent creators racing on one candidate are arbitrated by the
// storage unique index, not here.
func Unique(ctx context.Context, candidate string, exists func(context.Context, string) (bool, error)) (string, error) {
	s := candidate
	for {
		taken, err := exists(ctx, s)
		if err != nil {
			return "", err
		}
		if !taken {
			return s, nil
		}
		if m := numericSuffix.FindStringSubmatch(s); m != nil {
			if n, err := strconv.Atoi(m[2]); err == nil {
				s = fmt.Sprintf("%s-%d", m[1], n+1)
				continue
			}
		}
		s += "-2"
	}
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
