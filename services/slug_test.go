package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World 123", "hello-world-123"},
		{"  Extra  -- spaces ", "extra-spaces"},
		{"snake_case_title", "snake-case-title"},
		{"Emoji 🎉 Party!", "emoji-party"},
		{"---", ""},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "Slugify(%q)", c.in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("my-first-post"))
	assert.True(t, IsValidSlug("abc"))
	assert.False(t, IsValidSlug("ab"), "below minimum length")
	assert.False(t, IsValidSlug("Has-Capitals"))
	assert.False(t, IsValidSlug("spaces here"))
	assert.False(t, IsValidSlug(strings.Repeat("a", 121)), "above maximum length")
}

func TestDeriveSlugDeterministicPart(t *testing.T) {
	now := time.Now()

	slug := deriveSlug("Hello World", "ab12", now)
	assert.Equal(t, "hello-world-ab12", slug)
}

func TestDeriveSlugShortBaseFallsBackToTimestamp(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	slug := deriveSlug("Hi", "ab12", now)
	assert.Equal(t, "hi-loyw3v28-ab12", slug)
}

func TestDeriveSlugEmptyBaseFallsBackToPostPrefix(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	slug := deriveSlug("🎉🎉🎉", "ab12", now)
	assert.Equal(t, "post-loyw3v28-ab12", slug)
}

func TestDeriveSlugTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("word ", 100)

	slug := deriveSlug(long, "ab12", time.Now())
	require.LessOrEqual(t, len(slug), 120)
	assert.True(t, strings.HasSuffix(slug, "-ab12"))
}

func TestDeriveSlugAlwaysValid(t *testing.T) {
	titles := []string{
		"Hello World 123",
		"你好世界",
		"Mixed 中文 and English",
		"!!!",
		"A",
		strings.Repeat("very long title ", 30),
	}

	for _, title := range titles {
		slug := DeriveSlug(title)
		assert.True(t, IsValidSlug(slug), "DeriveSlug(%q) = %q", title, slug)
	}
}

func TestDeriveSlugTransliteratesHan(t *testing.T) {
	slug := deriveSlug("你好世界", "ab12", time.Now())
	assert.Equal(t, "ni-hao-shi-jie-ab12", slug)
}

func TestEstimateReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, EstimateReadingMinutes(""), "empty content reads as one minute")
	assert.Equal(t, 1, EstimateReadingMinutes("just a few words"))
	assert.Equal(t, 1, EstimateReadingMinutes(strings.Repeat("word ", 180)))
	assert.Equal(t, 2, EstimateReadingMinutes(strings.Repeat("word ", 181)))
	assert.Equal(t, 3, EstimateReadingMinutes(strings.Repeat("word ", 540)))
}

func TestEstimateReadingMinutesClampsToFieldMax(t *testing.T) {
	// 11000 words is 62 raw minutes, above the 60-minute field cap
	assert.Equal(t, 60, EstimateReadingMinutes(strings.Repeat("word ", 11000)))
	assert.Equal(t, 60, EstimateReadingMinutes(strings.Repeat("word ", 10800)))
}
