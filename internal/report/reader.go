package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vgomes/discografia-dl/internal/model"
)

// ReadFile reads a previously written report back into records. The format
// is chosen by file extension: ".xlsx" is read as a workbook, everything
// else as CSV.
//
// A leading header row (recognized by its first cell "trackId") is skipped,
// as is an optional UTF-8 BOM.
func ReadFile(path string) ([]model.TrackRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([]model.TrackRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return rowsToRecords(rows), nil
}

func readXLSX(path string) ([]model.TrackRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no worksheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return rowsToRecords(rows), nil
}

func rowsToRecords(rows [][]string) []model.TrackRecord {
	var records []model.TrackRecord
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && row[0] == model.Columns[0] {
			continue
		}
		records = append(records, model.FromRow(row))
	}
	return records
}
