package discografia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vgomes/discografia-dl/internal/discografia/dto"
	httpclient "github.com/vgomes/discografia-dl/internal/http"
	"github.com/vgomes/discografia-dl/internal/model"
)

// Extractor turns playlist and author identifiers into TrackRecord lists
// using the site's two-stage protocol: a tracklist fragment fetch followed
// by one content-detail lookup per track to resolve the audio URL.
type Extractor struct {
	client    *httpclient.Client
	endpoints Endpoints

	// tracklistLimit is the page size requested from the playlist
	// tracklist endpoint.
	tracklistLimit int

	// maxAuthorPages bounds the author pagination walk. The site itself
	// has no cap, so a malformed or cyclic next link would loop forever
	// without it.
	maxAuthorPages int

	onWarning func(format string, args ...any)
}

// Options configures an Extractor.
type Options struct {
	// TracklistLimit is the page size for playlist tracklist requests.
	TracklistLimit int

	// MaxAuthorPages bounds the author pagination walk.
	MaxAuthorPages int

	// OnWarning receives per-item, non-fatal problems (an unresolvable
	// audio URL, a truncated pagination walk). May be nil.
	OnWarning func(format string, args ...any)
}

// NewExtractor creates an Extractor.
func NewExtractor(client *httpclient.Client, endpoints Endpoints, opts Options) *Extractor {
	if opts.TracklistLimit <= 0 {
		opts.TracklistLimit = 500
	}
	if opts.MaxAuthorPages <= 0 {
		opts.MaxAuthorPages = 100
	}
	return &Extractor{
		client:         client,
		endpoints:      endpoints,
		tracklistLimit: opts.TracklistLimit,
		maxAuthorPages: opts.MaxAuthorPages,
		onWarning:      opts.OnWarning,
	}
}

// ExtractPlaylist returns every track of a playlist in source order.
//
// The tracklist endpoint returns up to the configured limit of tracks in a
// single response, so no pagination is involved. A fetch failure for the
// tracklist page is fatal and yields an empty list alongside the error;
// a failed audio lookup for an individual track only leaves that record's
// AudioURL empty.
func (e *Extractor) ExtractPlaylist(ctx context.Context, playlistID string) ([]model.TrackRecord, error) {
	pageURL := e.endpoints.TracklistURL(playlistID, e.tracklistLimit)

	html, err := e.client.GetString(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching tracklist for playlist %s: %w", playlistID, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing tracklist for playlist %s: %w", playlistID, err)
	}

	return e.parseTracks(ctx, doc, pageURL), nil
}

// ExtractAuthor returns every track of an author's catalog, following the
// "next page" links until a page yields zero track fragments or carries no
// next link.
//
// A fetch failure on any page aborts the walk but returns the records
// aggregated from the pages already parsed, together with the error:
// partial results are a usable outcome, not discarded work. Exceeding the
// configured page cap truncates the walk with a warning.
func (e *Extractor) ExtractAuthor(ctx context.Context, name string) ([]model.TrackRecord, error) {
	pageURL := e.endpoints.AuthorURL(name)

	var records []model.TrackRecord
	for page := 1; ; page++ {
		if page > e.maxAuthorPages {
			e.warn("author %q: stopping after %d pages, catalog truncated", name, e.maxAuthorPages)
			return records, nil
		}

		html, err := e.client.GetString(ctx, pageURL)
		if err != nil {
			return records, fmt.Errorf("fetching author page %d for %q: %w", page, name, err)
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return records, fmt.Errorf("parsing author page %d for %q: %w", page, name, err)
		}

		tracks := doc.Find(trackSelector)
		if tracks.Length() == 0 {
			// Natural end of the catalog, not an error.
			return records, nil
		}

		records = append(records, e.parseTracks(ctx, doc, pageURL)...)

		next := nextPageURL(doc, pageURL)
		if next == "" {
			return records, nil
		}
		pageURL = next
	}
}

// parseTracks parses every track fragment of a page and resolves each
// track's audio URL. Relative source URLs are resolved against the page
// URL.
func (e *Extractor) parseTracks(ctx context.Context, doc *goquery.Document, pageURL string) []model.TrackRecord {
	base, _ := url.Parse(pageURL)

	var records []model.TrackRecord
	doc.Find(trackSelector).Each(func(_ int, sel *goquery.Selection) {
		rec := ParseTrackFragment(sel)
		rec.SourceURL = resolveURL(base, rec.SourceURL)

		if rec.TrackID == "" {
			e.warn("track %q has no id, audio URL will not be resolved", rec.Title)
		} else if audioURL, err := e.resolveAudioURL(ctx, rec.TrackID); err != nil {
			e.warn("could not resolve audio URL for %q (id %s): %v", rec.Title, rec.TrackID, err)
		} else {
			rec.AudioURL = audioURL
		}

		records = append(records, rec)
	})
	return records
}

// resolveAudioURL queries the content-detail endpoint for a track id and
// returns the first audio content URL of its structured response.
func (e *Extractor) resolveAudioURL(ctx context.Context, dataID string) (string, error) {
	body, err := e.client.Get(ctx, e.endpoints.ContentURL(dataID))
	if err != nil {
		return "", err
	}

	var content dto.JSONContent
	if err := json.Unmarshal(body, &content); err != nil {
		return "", fmt.Errorf("malformed content response: %w", err)
	}

	audioURL, ok := content.FirstAudioURL()
	if !ok {
		return "", fmt.Errorf("content response has no audio URL")
	}
	return audioURL, nil
}

// nextPageURL finds the pagination anchor of a tracklist page. The site
// marks it with rel="next"; older renderings only label the anchor text
// "Próxima". Returns an absolute URL, or "" when the page is the last one.
func nextPageURL(doc *goquery.Document, pageURL string) string {
	base, _ := url.Parse(pageURL)

	if href, ok := doc.Find(`a[rel="next"]`).First().Attr("href"); ok {
		return resolveURL(base, href)
	}

	var href string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(model.Slug(a.Text()), "proxima") {
			href = a.AttrOr("href", "")
			return false
		}
		return true
	})
	return resolveURL(base, href)
}

// resolveURL resolves a possibly relative href against the page base.
func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (e *Extractor) warn(format string, args ...any) {
	if e.onWarning != nil {
		e.onWarning(format, args...)
	}
}
