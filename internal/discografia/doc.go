// Package discografia implements the Discografia Brasileira scraping
// protocol: parsing tracklist HTML fragments and resolving audio URLs
// through the content-detail API.
//
// The site serves each song as one div.track element inside an HTML
// fragment. The fragment carries the metadata (title, authors, performers,
// album, dates); the playable audio URL requires a second request to the
// content-detail endpoint keyed by the track's data-id.
//
// # Track parsing
//
// ParseTrackFragment converts one fragment into a model.TrackRecord and
// never fails; missing sub-elements degrade to documented defaults:
//
//	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(html))
//	doc.Find("div.track").Each(func(_ int, sel *goquery.Selection) {
//	    rec := discografia.ParseTrackFragment(sel)
//	    fmt.Println(rec.Title, rec.AuthorsDisplay())
//	})
//
// # Extraction
//
// The Extractor drives the full protocol for a playlist or an author:
//
//	ex := discografia.NewExtractor(client, endpoints, discografia.Options{})
//
//	records, err := ex.ExtractPlaylist(ctx, "247664")
//
//	// Author catalogs are paginated; the walk follows "next page" links
//	// and is bounded by Options.MaxAuthorPages.
//	records, err = ex.ExtractAuthor(ctx, "Nilton Bastos")
//
// A failed audio lookup degrades the individual record (empty AudioURL)
// and is reported through Options.OnWarning; a failed page fetch is fatal
// to the batch but ExtractAuthor still returns the pages aggregated so far.
package discografia
