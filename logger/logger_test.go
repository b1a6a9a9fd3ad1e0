package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs_RedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{"username", "sheila", "authtoken", "abc-123", "Password", "hunter2"})
	assert.Equal(t, []interface{}{"username", "sheila", "authtoken", "[REDACTED]", "Password", "[REDACTED]"}, out)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"session", "s1", "dangling"})
	assert.Equal(t, []interface{}{"session", "s1", "dangling"}, out)
}
