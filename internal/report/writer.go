package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	ioutils "github.com/vgomes/discografia-dl/internal/io"
	"github.com/vgomes/discografia-dl/internal/model"
)

// Format identifies a report serialization form.
type Format int

const (
	// FormatCSV writes comma-separated text with a UTF-8 BOM, the form
	// Excel opens with correct accents out of the box.
	FormatCSV Format = iota

	// FormatXLSX writes a spreadsheet workbook.
	FormatXLSX
)

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == FormatXLSX {
		return ".xlsx"
	}
	return ".csv"
}

// utf8BOM prefixes CSV files so spreadsheet applications decode the
// Portuguese titles correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sheetName is the single worksheet used in XLSX reports.
const sheetName = "Sheet1"

// FileName builds a report filename embedding the source identifier and a
// generation timestamp, e.g. "playlist_247664_complete_20240115_103000.csv".
// The prefix is sanitized since author names may contain path-illegal
// characters.
func FileName(prefix, kind string, now time.Time, format Format) string {
	stamp := now.Format("20060102_150405")
	return ioutils.SanitizeFileName(fmt.Sprintf("%s_%s_%s", prefix, kind, stamp)) + format.Extension()
}

// Write serializes records to path in the given format and column order.
//
// Absent optional fields serialize as empty values; the column order is
// fixed by the columns argument regardless of which fields are populated.
// Only I/O-level errors are possible.
func Write(path string, records []model.TrackRecord, columns []string, format Format) error {
	if format == FormatXLSX {
		return WriteXLSX(path, records, columns)
	}
	return WriteCSV(path, records, columns)
}

// WriteCSV serializes records to a UTF-8-BOM CSV file.
func WriteCSV(path string, records []model.TrackRecord, columns []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return err
	}
	for i := range records {
		if err := w.Write(rowFor(&records[i], columns)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX serializes records to a single-sheet spreadsheet workbook.
func WriteXLSX(path string, records []model.TrackRecord, columns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i := range records {
		values := rowFor(&records[i], columns)
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// rowFor slices a record's full fixed-order row down to the requested
// column set. Both supported column sets are prefixes of model.Columns.
func rowFor(rec *model.TrackRecord, columns []string) []string {
	row := rec.Row()
	if len(columns) < len(row) {
		row = row[:len(columns)]
	}
	return row
}
