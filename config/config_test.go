package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "", GetString(c, "EMPTY", "fallback"), "present but empty wins over the default")
	assert.Equal(t, "fallback", GetString(c, "MISSING", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"TIMEOUT": "30", "BAD": "thirty"}

	assert.Equal(t, 30, GetInt(c, "TIMEOUT", 180))
	assert.Equal(t, 180, GetInt(c, "BAD", 180))
	assert.Equal(t, 180, GetInt(c, "MISSING", 180))
}

func TestGetBool(t *testing.T) {
	c := map[string]string{"SEED": "true", "UPPER": "TRUE", "BAD": "yes"}

	assert.True(t, GetBool(c, "SEED", false))
	assert.True(t, GetBool(c, "UPPER", false))
	assert.False(t, GetBool(c, "BAD", false))
	assert.True(t, GetBool(c, "MISSING", true))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("BLOG_TEST_KEY", "value")

	c := New()
	assert.Equal(t, "value", GetString(c, "BLOG_TEST_KEY", ""))
}
