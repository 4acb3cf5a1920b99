// Package model defines the core data structures used throughout
// discografia-dl.
//
// # TrackRecord
//
// TrackRecord holds one song's metadata plus its audit state:
//
//	rec := model.TrackRecord{
//	    TrackID: "62582",
//	    Title:   "É Mato",
//	    Authors: []string{"Wilson Batista", "Alvaiade"},
//	}
//	fmt.Println(rec.FolderName())    // Destination folder
//	fmt.Println(rec.AudioFileName()) // "e-mato_62582.mp3"
//
// # Report schema
//
// Columns fixes the serialization order of every persisted report;
// MetadataColumns is the audit-free subset. Row and FromRow convert between
// records and report rows in that order.
//
// # Slug
//
// Slug derives the filename stem from a title: lowercase, diacritics
// stripped, hyphen-separated.
package model
