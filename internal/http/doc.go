// Package http provides an HTTP client configured for the Discografia
// Brasileira endpoints.
//
// The Client in this package handles:
//   - Injecting the configured request headers into every call
//   - Streamed audio downloads with a bounded per-file timeout
//   - Progress tracking via ProgressWriter
//
// # Basic Usage
//
//	client := http.NewClient(map[string]string{
//	    "User-Agent":       settings.UserAgent,
//	    "X-Requested-With": settings.XRequestedWith,
//	})
//
//	// Fetch a tracklist fragment
//	html, err := client.GetString(ctx, tracklistURL)
//
//	// Download a file with progress callback
//	client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", time.Minute, func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// Metadata fetches carry no explicit timeout (the transport default
// applies); only audio downloads are bounded.
package http
