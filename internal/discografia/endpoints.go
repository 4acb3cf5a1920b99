package discografia

import (
	"net/url"
	"strconv"
	"strings"
)

// Endpoints holds the templated site URLs. Templates come from the process
// configuration and use the placeholders {playlistId}, {limit}, {dataId}
// and {authorName}.
type Endpoints struct {
	// Tracklist is the tracklist-by-playlist endpoint template.
	Tracklist string

	// Content is the content-detail endpoint template, queried per track
	// to resolve the audio URL.
	Content string

	// Author is the author-tracklist endpoint template.
	Author string
}

// TracklistURL builds the tracklist URL for a playlist id and page size.
func (e Endpoints) TracklistURL(playlistID string, limit int) string {
	u := strings.ReplaceAll(e.Tracklist, "{playlistId}", url.PathEscape(playlistID))
	return strings.ReplaceAll(u, "{limit}", strconv.Itoa(limit))
}

// ContentURL builds the content-detail URL for a track id.
func (e Endpoints) ContentURL(dataID string) string {
	return strings.ReplaceAll(e.Content, "{dataId}", url.PathEscape(dataID))
}

// AuthorURL builds the first-page author-tracklist URL for a display name.
func (e Endpoints) AuthorURL(name string) string {
	return strings.ReplaceAll(e.Author, "{authorName}", url.PathEscape(name))
}
