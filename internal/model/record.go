package model

import (
	"regexp"
	"strings"
)

const (
	// UnknownTitle is the sentinel used when a track fragment has no
	// parseable title element.
	UnknownTitle = "Unknown Title"

	// UnknownAuthor is the sentinel folder name for tracks whose author
	// list is empty.
	UnknownAuthor = "Unknown Author"
)

// displaySeparator joins author and performer names in the flat report
// fields, e.g. "Wilson Batista / Alvaiade".
const displaySeparator = " / "

// Columns is the fixed serialization order for complete (audit) reports.
// Every persisted report uses this order regardless of which fields happen
// to be populated.
var Columns = []string{
	"trackId",
	"title",
	"performer",
	"author",
	"album",
	"albumReleaseYear",
	"recordingDate",
	"releaseDate",
	"sourceUrl",
	"audioUrl",
	"folder",
	"fileName",
	"downloadDate",
}

// MetadataColumns is the column order for metadata-only reports: everything
// except the audit fields.
var MetadataColumns = Columns[:10]

// TrackRecord is the normalized representation of one song's metadata plus
// its audit state.
//
// A record is created by the track parser from one HTML fragment and its
// metadata fields are immutable thereafter. Only the download stage sets the
// audit fields (Folder, FileName, DownloadDate).
//
// Example:
//
//	rec := model.TrackRecord{
//	    TrackID: "62582",
//	    Title:   "É Mato",
//	    Authors: []string{"Wilson Batista", "Alvaiade"},
//	}
//	rec.FolderName()    // "Wilson Batista"
//	rec.AudioFileName() // "e-mato_62582.mp3"
type TrackRecord struct {
	// TrackID is the site identifier for the track. May be empty when the
	// play button carries no data attribute. Deduplication keys on it.
	TrackID string

	// Title is the display-cased track title, or UnknownTitle.
	Title string

	// Authors holds the author names in source order. The first entry is
	// the primary author and determines the destination folder.
	Authors []string

	// Performers holds the performer names in source order.
	Performers []string

	// Album is the disc/release the recording appeared on. May be empty.
	Album string

	// AlbumReleaseYear is the year the disc was released. May be empty.
	AlbumReleaseYear string

	// RecordingDate is the labeled "gravacao" property. May be empty.
	RecordingDate string

	// ReleaseDate is the labeled "lancamento" property. May be empty.
	ReleaseDate string

	// SourceURL points back at the track page on the site. May be empty.
	SourceURL string

	// AudioURL is the resolved playable URL, or the empty string when the
	// content lookup failed or the track exposes no audio. Never a
	// nil-equivalent to the report writer.
	AudioURL string

	// Folder is the sanitized primary-author folder name. Set only by the
	// download stage, and only for records with a non-empty AudioURL.
	Folder string

	// FileName is the computed audio filename. Set alongside Folder.
	FileName string

	// DownloadDate is the date-only stamp (2006-01-02) recorded when the
	// audio file exists on disk at the end of the download stage. Empty
	// means the download failed or never ran.
	DownloadDate string
}

// PrimaryAuthor returns the first author, or UnknownAuthor when the author
// list is empty or blank.
func (r *TrackRecord) PrimaryAuthor() string {
	if len(r.Authors) == 0 || strings.TrimSpace(r.Authors[0]) == "" {
		return UnknownAuthor
	}
	return strings.TrimSpace(r.Authors[0])
}

// AuthorsDisplay returns the authors joined with " / " for the flat report
// field, preserving source order.
func (r *TrackRecord) AuthorsDisplay() string {
	return strings.Join(r.Authors, displaySeparator)
}

// PerformersDisplay returns the performers joined with " / ".
func (r *TrackRecord) PerformersDisplay() string {
	return strings.Join(r.Performers, displaySeparator)
}

// FolderName returns the destination folder for this track's audio file:
// the primary author with path-illegal characters removed.
func (r *TrackRecord) FolderName() string {
	return sanitizeFolderName(r.PrimaryAuthor())
}

// AudioFileName computes the audio filename as {slug(title)}_{trackId}.mp3.
// When the track has no id the underscore suffix is dropped.
func (r *TrackRecord) AudioFileName() string {
	slug := Slug(r.Title)
	if r.TrackID == "" {
		return slug + ".mp3"
	}
	return slug + "_" + r.TrackID + ".mp3"
}

// Row returns the record's fields in the fixed Columns order.
func (r *TrackRecord) Row() []string {
	return []string{
		r.TrackID,
		r.Title,
		r.PerformersDisplay(),
		r.AuthorsDisplay(),
		r.Album,
		r.AlbumReleaseYear,
		r.RecordingDate,
		r.ReleaseDate,
		r.SourceURL,
		r.AudioURL,
		r.Folder,
		r.FileName,
		r.DownloadDate,
	}
}

// FromRow rebuilds a record from a persisted report row. Short rows (e.g.
// from a metadata-only report) leave the trailing fields empty.
func FromRow(row []string) TrackRecord {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	return TrackRecord{
		TrackID:          get(0),
		Title:            get(1),
		Performers:       splitDisplay(get(2)),
		Authors:          splitDisplay(get(3)),
		Album:            get(4),
		AlbumReleaseYear: get(5),
		RecordingDate:    get(6),
		ReleaseDate:      get(7),
		SourceURL:        get(8),
		AudioURL:         get(9),
		Folder:           get(10),
		FileName:         get(11),
		DownloadDate:     get(12),
	}
}

func splitDisplay(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, displaySeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// illegalPathChars matches the characters that may not appear in folder
// names on common filesystems.
var illegalPathChars = regexp.MustCompile(`[\\/*?:"<>|]`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// sanitizeFolderName removes path-illegal characters and squeezes the
// leftover whitespace. Trailing dots are stripped for Windows.
func sanitizeFolderName(name string) string {
	name = illegalPathChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	return name
}
