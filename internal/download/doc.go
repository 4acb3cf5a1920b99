// Package download provides the download-and-audit stage and the pipeline
// orchestration for discografia-dl.
//
// # Engine
//
// The Engine takes ownership of a record collection, downloads each
// distinct audio file into {destRoot}/{sanitized primary author}/ and
// returns the annotated collection:
//
//	engine := download.NewEngine(client, download.EngineOptions{Timeout: time.Minute})
//	records = engine.Run(ctx, records, "/downloads")
//
// A file already on disk counts as success without re-fetching, which
// keeps repeated runs and duplicate targets at-most-once. Individual
// failures leave the record's DownloadDate empty and never abort the
// stage.
//
// # Manager
//
// The Manager wires extraction, the engine and report writing into one
// sequential run per playlist or author:
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.RunPlaylist(ctx, "247664")
//
// # Progress Tracking
//
// Progress is reported via a callback that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message   string
//	    Level     ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Completed int           // per-track ticks during the download stage
//	    Total     int
//	}
//
// Per-item skips surface only as warnings and in the audit columns of the
// final report; the run as a whole succeeds or fails once.
package download
