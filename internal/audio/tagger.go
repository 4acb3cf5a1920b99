package audio

import (
	"fmt"

	"github.com/bogem/id3v2"

	"github.com/vgomes/discografia-dl/internal/model"
)

// Tagger writes ID3 tags to downloaded MP3 files.
//
// The Discografia metadata maps onto the standard frames:
//   - Title  → TIT2
//   - Artist → TPE1 (the display-joined author list)
//   - Album  → TALB
//   - Year   → TYER (the album release year)
//
// Example:
//
//	tagger := audio.NewTagger()
//	if err := tagger.SaveTags("/music/Wilson Batista/e-mato_62582.mp3", &rec); err != nil {
//	    log.Printf("failed to tag %s: %v", rec.FileName, err)
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// SaveTags writes the record's metadata into the MP3 file at path.
//
// Empty metadata fields leave the corresponding frame untouched, so a
// record with no album does not clear a pre-existing album frame.
func (t *Tagger) SaveTags(path string, rec *model.TrackRecord) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening %s for tagging: %w", path, err)
	}
	defer tag.Close()

	if rec.Title != "" && rec.Title != model.UnknownTitle {
		tag.SetTitle(rec.Title)
	}
	if artist := rec.AuthorsDisplay(); artist != "" {
		tag.SetArtist(artist)
	}
	if rec.Album != "" {
		tag.SetAlbum(rec.Album)
	}
	if rec.AlbumReleaseYear != "" {
		tag.SetYear(rec.AlbumReleaseYear)
	}

	return tag.Save()
}
