package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitByBytes(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitByBytes("short", 10))

	parts := SplitByBytes(strings.Repeat("a", 25), 10)
	assert.Equal(t, []string{strings.Repeat("a", 10), strings.Repeat("a", 10), "aaaaa"}, parts)

	// "–" is three bytes and must not be cut in half.
	parts = SplitByBytes("ab–cd", 3)
	assert.Equal(t, []string{"ab", "–", "cd"}, parts)
	assert.Equal(t, "ab–cd", strings.Join(parts, ""))
}

func TestTruncateByBytes(t *testing.T) {
	assert.Equal(t, "abc", TruncateByBytes("abc", 5))
	assert.Equal(t, "ab", TruncateByBytes("ab–cd", 4))
	assert.Equal(t, "ab–", TruncateByBytes("ab–cd", 5))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "studio.png", fileName("image/png"))
	assert.Equal(t, "studio.jpg", fileName(""))
	assert.Equal(t, "studio.jpg", fileName("application/x-unknown-thing"))
}
