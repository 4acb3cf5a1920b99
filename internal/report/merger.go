package report

import (
	"errors"
	"path/filepath"
	"time"

	ioutils "github.com/vgomes/discografia-dl/internal/io"
	"github.com/vgomes/discografia-dl/internal/model"
)

// ErrNoReports is returned by Merge when the input list is empty or none
// of the listed files could be read.
var ErrNoReports = errors.New("no readable report files")

// Merge unions previously written reports into one deduplicated CSV file
// in outDir and returns its path.
//
// Each input file is read in list order; an unreadable file is skipped
// with a warning, never fatal to the merge. Duplicate records are dropped
// by TrackID keeping the first occurrence, so the output order is: order
// of the input file list, then in-file order. Records without a TrackID
// identify nothing and are all kept.
//
// The output file is named "merged_report_<timestamp>.csv" to avoid
// overwriting earlier merges.
func Merge(paths []string, outDir string, warn func(format string, args ...any)) (string, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	if len(paths) == 0 {
		return "", ErrNoReports
	}

	var merged []model.TrackRecord
	readable := 0
	for _, path := range paths {
		records, err := ReadFile(path)
		if err != nil {
			warn("skipping unreadable report %s: %v", path, err)
			continue
		}
		readable++
		merged = append(merged, records...)
	}
	if readable == 0 {
		return "", ErrNoReports
	}

	deduped := Deduplicate(merged)

	if err := ioutils.EnsureDir(outDir); err != nil {
		return "", err
	}

	outPath := filepath.Join(outDir, FileName("merged", "report", time.Now(), FormatCSV))
	if err := WriteCSV(outPath, deduped, model.Columns); err != nil {
		return "", err
	}
	return outPath, nil
}

// Deduplicate removes records whose TrackID was already seen, keeping the
// first occurrence. Records with an empty TrackID are always kept: an
// absent id identifies nothing, so two id-less records are never treated
// as the same track the way a plain distinct-by-key would collapse them.
func Deduplicate(records []model.TrackRecord) []model.TrackRecord {
	seen := make(map[string]struct{}, len(records))
	deduped := make([]model.TrackRecord, 0, len(records))
	for _, rec := range records {
		if rec.TrackID != "" {
			if _, dup := seen[rec.TrackID]; dup {
				continue
			}
			seen[rec.TrackID] = struct{}{}
		}
		deduped = append(deduped, rec)
	}
	return deduped
}
