package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractItemsFirstArray(t *testing.T) {
	raw := "Sure! Here you go:\n[{\"sentence\": \"I eat an apple.\", \"translation\": \"Saya makan apel.\"}]\nEnjoy."

	items, ok := ExtractItems(raw, validExample)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "I eat an apple.", items[0].Sentence)
}

// TestExtractItemsNestedArrays verifies option lists inside items do not cut
// the payload short.
func TestExtractItemsNestedArrays(t *testing.T) {
	raw := "```json\n[{\"question\": \"Apple means?\", \"options\": [\"apel\", \"buku\", \"kucing\", \"pohon\"], \"correct\": 0}]\n```"

	items, ok := ExtractItems(raw, validQuestion)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Options, 4)
	assert.Equal(t, 0, items[0].Correct)
}

func TestExtractItemsWholeBodyObject(t *testing.T) {
	raw := `{"examples": [{"sentence": "She reads a book.", "translation": ""}]}`

	items, ok := ExtractItems(raw, validExample)
	require.True(t, ok)
	assert.Equal(t, "She reads a book.", items[0].Sentence)
}

// TestDecodeArrayObjectKeyOrder verifies object fields are tried in sorted key order.
func TestDecodeArrayObjectKeyOrder(t *testing.T) {
	raw := `{"zeta": [{"sentence": "Last key.", "translation": ""}], "alpha": [{"sentence": "First key.", "translation": ""}]}`

	items, ok := decodeArray(raw, validExample)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "First key.", items[0].Sentence)
}

func TestExtractItemsRejects(t *testing.T) {
	cases := map[string]string{
		"empty":         "   ",
		"prose":         "I could not think of anything.",
		"empty array":   "[]",
		"missing key":   `[{"translation": "x"}]`,
		"broken json":   `[{"sentence": "a"`,
		"partial valid": `[{"sentence": "ok"}, {"sentence": ""}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ExtractItems(raw, validExample)
			assert.False(t, ok)
		})
	}

	_, ok := ExtractItems(`[{"question": "q", "options": ["a", "b"], "correct": 0}]`, validQuestion)
	assert.False(t, ok)

	_, ok = ExtractItems(`[{"question": "q", "options": ["a", "b", "c", "d"], "correct": 4}]`, validQuestion)
	assert.False(t, ok)
}

func TestExtractItemsWords(t *testing.T) {
	raw := `Words: [{"english": "river", "translation": "sungai", "category": "nature"}, {"english": "sky", "translation": "langit", "category": "nature"}]`

	items, ok := ExtractItems(raw, validExtracted)
	require.True(t, ok)
	assert.Len(t, items, 2)
	assert.Equal(t, "langit", items[1].Translation)
}
