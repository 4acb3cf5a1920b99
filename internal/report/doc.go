// Package report persists track records as auditable CSV/XLSX tables and
// merges previously written reports.
//
// Every report uses the fixed column order of model.Columns (or its
// metadata-only prefix); absent fields serialize as empty values, never as
// a missing column.
//
// # Writing
//
//	name := report.FileName("playlist_247664", "complete", time.Now(), report.FormatCSV)
//	err := report.Write(filepath.Join(dir, name), records, model.Columns, report.FormatCSV)
//
// # Reading and merging
//
//	records, err := report.ReadFile("playlist_247664_complete_20240115_103000.csv")
//
//	outPath, err := report.Merge([]string{"a.csv", "b.xlsx"}, outDir, warnf)
//
// Merge skips unreadable inputs with a warning and deduplicates by
// TrackID, keeping the first occurrence.
package report
