package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportRow is one catalog entry read from an uploaded sheet.
type ImportRow struct {
	Line        int
	English     string
	Translation string
	Category    string
	Difficulty  int
}

var errUnsupportedSheet = errors.New("only .xlsx and .csv files are supported")

// ParseWordSheet reads rows from an xlsx or csv upload. The first row is the
// header; english and translation columns are required, category and
// difficulty are optional. Row level problems are returned as messages and
// do not stop the import.
func ParseWordSheet(r io.Reader, fileName string) ([]ImportRow, []string, error) {
	var records [][]string
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		defer f.Close()

		sheet := f.GetSheetName(0)
		records, err = f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		var err error
		records, err = reader.ReadAll()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv: %w", err)
		}
	default:
		return nil, nil, errUnsupportedSheet
	}

	if len(records) == 0 {
		return nil, nil, errors.New("file is empty")
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"english", "translation"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("missing %s column", required)
		}
	}

	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []ImportRow
	var problems []string
	for n, rec := range records[1:] {
		line := n + 2
		row := ImportRow{
			Line:        line,
			English:     cell(rec, "english"),
			Translation: cell(rec, "translation"),
			Category:    cell(rec, "category"),
			Difficulty:  1,
		}
		if row.English == "" && row.Translation == "" {
			continue
		}
		if row.English == "" || row.Translation == "" {
			problems = append(problems, fmt.Sprintf("row %d: english and translation are required", line))
			continue
		}
		if d := cell(rec, "difficulty"); d != "" {
			v, err := strconv.Atoi(d)
			if err != nil || v < 1 || v > 5 {
				problems = append(problems, fmt.Sprintf("row %d: difficulty must be between 1 and 5", line))
				continue
			}
			row.Difficulty = v
		}
		rows = append(rows, row)
	}

	return rows, problems, nil
}
