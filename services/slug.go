package services

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/rpupo63/agile-blog-backend/models"
)

const slugMaxLen = 120

var (
	slugSpacingRe = regexp.MustCompile(`[\s_]+`)
	slugInvalidRe = regexp.MustCompile(`[^\w-]+`)
	slugHyphensRe = regexp.MustCompile(`-{2,}`)
	slugValidRe   = regexp.MustCompile(`^[a-z0-9-]{3,120}$`)
)

// Slugify lowercases and trims the input, collapses whitespace and underscores
// to single hyphens, strips everything outside [a-z0-9_-], collapses hyphen
// runs and trims leading/trailing hyphens.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = slugSpacingRe.ReplaceAllString(s, "-")
	s = slugInvalidRe.ReplaceAllString(s, "")
	s = slugHyphensRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s already satisfies the slug pattern and length
// limits, so a client-supplied slug can be used as-is.
func IsValidSlug(s string) bool {
	return slugValidRe.MatchString(s)
}

func containsHan(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

// transliterate converts Han characters to toneless pinyin syllables separated
// by spaces; all other runes pass through untouched. The surrounding spaces
// collapse into hyphens during slugification.
func transliterate(value string) string {
	args := pinyin.NewArgs()
	var b strings.Builder
	for _, r := range value {
		if r >= 0x4e00 && r <= 0x9fff {
			if syllables := pinyin.SinglePinyin(r, args); len(syllables) > 0 {
				b.WriteByte(' ')
				b.WriteString(syllables[0])
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SlugBase derives the deterministic part of a slug from a title,
// transliterating non-Latin scripts first.
func SlugBase(title string) string {
	if containsHan(title) {
		return Slugify(transliterate(title))
	}
	return Slugify(title)
}

// DeriveSlug builds a URL-safe slug from a title: the slugified base, capped so
// a 4-character base36 tail still fits under 120, with a timestamp fallback for
// bases shorter than 3 characters. The random tail makes collisions rare; the
// store's unique index stays the authority and a collision surfaces as
// DuplicateSlug with no automatic retry.
func DeriveSlug(title string) string {
	return deriveSlug(title, randomTail(), time.Now())
}

func deriveSlug(title, tail string, now time.Time) string {
	slug := SlugBase(title)
	if len(slug) > slugMaxLen-len(tail)-1 {
		slug = slug[:slugMaxLen-len(tail)-1]
	}
	if len(slug) < 3 && slug != "" {
		slug = slug + "-" + strconv.FormatInt(now.UnixMilli(), 36)
	}
	if slug == "" {
		slug = "post-" + strconv.FormatInt(now.UnixMilli(), 36)
	}
	combined := slug + "-" + tail
	if len(combined) > slugMaxLen {
		combined = combined[:slugMaxLen]
	}
	return combined
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomTail() string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return string(b)
}

// EstimateReadingMinutes derives a reading time from whitespace-separated word
// count at roughly 180 words per minute, clamped to the 1-60 field range so
// the derived value always satisfies the same bounds a client-supplied one
// must.
func EstimateReadingMinutes(content string) int {
	const wordsPerMinute = 180
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes > models.PostMaxReadingMin {
		return models.PostMaxReadingMin
	}
	return minutes
}
