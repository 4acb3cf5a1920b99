// Package audio writes ID3 metadata to downloaded MP3 files.
//
// The Tagger maps a model.TrackRecord onto the standard ID3v2 frames
// (title, artist, album, year). It is invoked by the download stage after
// each successful download when tagging is enabled in the settings:
//
//	tagger := audio.NewTagger()
//	err := tagger.SaveTags(filePath, &record)
//
// Tagging failures are reported as warnings and never fail a download:
// the audio file on disk is the deliverable, the tags are convenience.
package audio
