package discografia

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vgomes/discografia-dl/internal/model"
)

// Selectors of the tracklist fragment structure. Each song arrives as one
// div.track element.
const (
	trackSelector  = "div.track"
	playButton     = ".play-bttn"
	titleLink      = ".track-name a"
	authorLinks    = ".track-author a"
	performerLinks = ".track-performer a"
	albumLink      = ".track-duration a"
	yearElement    = ".track-year"
	propertyLabel  = ".property-label"
	recordingLabel = "gravacao"
	releaseLabel   = "lancamento"
	trackIDAttr    = "data-id"
)

var displayCaser = cases.Title(language.BrazilianPortuguese)

// ParseTrackFragment turns one div.track selection into a TrackRecord.
//
// It never fails: every missing sub-element degrades to its documented
// default (empty string, or model.UnknownTitle for the title). The record's
// AudioURL is left empty; resolving it requires the content-detail lookup
// performed by the Extractor.
func ParseTrackFragment(sel *goquery.Selection) model.TrackRecord {
	rec := model.TrackRecord{
		Title: model.UnknownTitle,
	}

	rec.TrackID = strings.TrimSpace(sel.Find(playButton).First().AttrOr(trackIDAttr, ""))

	title := sel.Find(titleLink).First()
	if text := strings.TrimSpace(title.Text()); text != "" {
		rec.Title = displayCaser.String(text)
	}
	rec.SourceURL = strings.TrimSpace(title.AttrOr("href", ""))

	rec.Authors = linkTexts(sel.Find(authorLinks))
	rec.Performers = linkTexts(sel.Find(performerLinks))

	rec.Album = strings.TrimSpace(sel.Find(albumLink).First().Text())
	rec.AlbumReleaseYear = strings.TrimSpace(sel.Find(yearElement).First().Text())

	// The labeled properties are scanned once into a key/value list; the
	// dates are then plain lookups by their exact label text.
	props := propertyValues(sel)
	rec.RecordingDate = props[recordingLabel]
	rec.ReleaseDate = props[releaseLabel]

	return rec
}

// linkTexts collects the trimmed text of every anchor in source order.
func linkTexts(sel *goquery.Selection) []string {
	var names []string
	sel.Each(func(_ int, a *goquery.Selection) {
		if text := strings.TrimSpace(a.Text()); text != "" {
			names = append(names, text)
		}
	})
	return names
}

// propertyValues extracts the fragment's labeled properties. A property is
// a .property-label element whose value is the text of its immediate next
// sibling. The first occurrence of a label wins.
func propertyValues(sel *goquery.Selection) map[string]string {
	props := make(map[string]string)
	sel.Find(propertyLabel).Each(func(_ int, lbl *goquery.Selection) {
		key := strings.TrimSpace(lbl.Text())
		if key == "" {
			return
		}
		if _, seen := props[key]; seen {
			return
		}
		props[key] = strings.TrimSpace(lbl.Next().Text())
	})
	return props
}
