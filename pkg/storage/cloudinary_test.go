package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/words/apple.webp": "words/apple",
		"https://res.cloudinary.com/demo/image/upload/words/book.png":         "words/book",
		"https://res.cloudinary.com/demo/image/upload/vocab.webp":             "vocab",
		"https://example.com/no/marker/here.png":                              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, PublicID(in), in)
	}
}

// TestDisabledStorage verifies an unconfigured store refuses uploads and ignores deletes.
func TestDisabledStorage(t *testing.T) {
	s, err := NewCloudinaryStorage("", "")
	require.NoError(t, err)

	_, err = s.UploadImage(context.Background(), strings.NewReader("x"), "words", "a.png")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, s.DeleteImage(context.Background(), "https://res.cloudinary.com/x/image/upload/a.png"))
}
