package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseWordSheetCSV(t *testing.T) {
	data := "English,Translation,Category,Difficulty\n" +
		"apple,apel,Food,1\n" +
		"run,,Verbs,2\n" +
		",,,\n" +
		"school,sekolah,Places,9\n" +
		"book,buku,,\n"

	rows, problems, err := ParseWordSheet(strings.NewReader(data), "words.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "apple", rows[0].English)
	assert.Equal(t, "Food", rows[0].Category)
	assert.Equal(t, 1, rows[1].Difficulty)
	assert.Equal(t, 6, rows[1].Line)

	assert.Equal(t, []string{
		"row 3: english and translation are required",
		"row 5: difficulty must be between 1 and 5",
	}, problems)
}

func TestParseWordSheetXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"translation", "english", "difficulty"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"kucing", "cat", 3}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, problems, err := ParseWordSheet(buf, "import.xlsx")
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, rows, 1)
	assert.Equal(t, ImportRow{Line: 2, English: "cat", Translation: "kucing", Difficulty: 3}, rows[0])
}

func TestParseWordSheetRejects(t *testing.T) {
	_, _, err := ParseWordSheet(strings.NewReader("a,b"), "words.txt")
	assert.ErrorIs(t, err, errUnsupportedSheet)

	_, _, err = ParseWordSheet(strings.NewReader("english,category\nx,y\n"), "words.csv")
	assert.EqualError(t, err, "missing translation column")
}
