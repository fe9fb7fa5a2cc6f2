package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRedact verifies secret values are masked while other pairs pass through.
func TestRedact(t *testing.T) {
	in := []interface{}{"username", "budi", "Password", "hunter2", "token", "abc"}
	out := redact(in)

	assert.Equal(t, []interface{}{"username", "budi", "Password", "[REDACTED]", "token", "[REDACTED]"}, out)
	assert.Equal(t, "hunter2", in[3], "input slice must not be mutated")
}

// TestRedactOddLength verifies a dangling key does not panic.
func TestRedactOddLength(t *testing.T) {
	out := redact([]interface{}{"password"})
	assert.Equal(t, []interface{}{"password"}, out)
}
