package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vgomes/discografia-dl/internal/audio"
	httpclient "github.com/vgomes/discografia-dl/internal/http"
	ioutils "github.com/vgomes/discografia-dl/internal/io"
	"github.com/vgomes/discografia-dl/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update from the pipeline.
//
// Completed/Total are populated on per-track completion events during the
// download stage so front-ends can drive a progress bar; both are zero on
// plain log messages.
type ProgressEvent struct {
	Message   string
	Level     ProgressLevel
	Completed int
	Total     int
}

// Engine is the download-and-audit stage: it takes a collection of track
// records, downloads each distinct audio file into an author-keyed folder
// under the destination root, and stamps every record with its audit
// fields.
//
// The engine owns the collection it is given: Run returns a new annotated
// slice and callers must not rely on the input afterwards. Individual
// download failures never fail the stage; they leave the record's
// DownloadDate empty.
type Engine struct {
	client     *httpclient.Client
	tagger     *audio.Tagger
	timeout    time.Duration
	modifyTags bool
	onProgress func(ProgressEvent)

	// now stamps DownloadDate; replaceable in tests.
	now func() time.Time
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Timeout bounds each audio download. Zero means unbounded.
	Timeout time.Duration

	// ModifyTags enables ID3 tagging of successfully downloaded files.
	ModifyTags bool

	// OnProgress receives progress events. May be nil.
	OnProgress func(ProgressEvent)
}

// NewEngine creates a download Engine.
func NewEngine(client *httpclient.Client, opts EngineOptions) *Engine {
	return &Engine{
		client:     client,
		tagger:     audio.NewTagger(),
		timeout:    opts.Timeout,
		modifyTags: opts.ModifyTags,
		onProgress: opts.OnProgress,
		now:        time.Now,
	}
}

// Run downloads the audio of every record with a non-empty AudioURL into
// {destRoot}/{folder}/{fileName} and returns the annotated collection.
//
// Per record:
//   - Folder and FileName are computed and set before any network call.
//   - An already existing target file counts as success without re-fetching,
//     which also makes repeated runs and duplicate targets at-most-once.
//   - Otherwise one streamed download attempt is made with the configured
//     timeout; on failure the record keeps its Folder/FileName but no
//     DownloadDate.
//   - DownloadDate (date-only) is stamped on every record whose file exists
//     on disk at the end of its turn.
//
// Records with an empty AudioURL pass through untouched. The only early
// exit is context cancellation.
func (e *Engine) Run(ctx context.Context, records []model.TrackRecord, destRoot string) []model.TrackRecord {
	out := make([]model.TrackRecord, len(records))
	copy(out, records)

	total := 0
	for i := range out {
		if out[i].AudioURL != "" {
			total++
		}
	}

	completed := 0
	for i := range out {
		if ctx.Err() != nil {
			e.progress(ProgressEvent{Message: "download stage cancelled", Level: LevelWarning})
			break
		}

		rec := &out[i]
		if rec.AudioURL == "" {
			e.progress(ProgressEvent{Message: fmt.Sprintf("no audio URL for %q, skipping download", rec.Title), Level: LevelVerbose})
			continue
		}

		completed++
		e.downloadRecord(ctx, rec, destRoot)
		e.progress(ProgressEvent{
			Message:   fmt.Sprintf("processed %q (%d/%d)", rec.Title, completed, total),
			Level:     LevelVerbose,
			Completed: completed,
			Total:     total,
		})
	}

	return out
}

func (e *Engine) downloadRecord(ctx context.Context, rec *model.TrackRecord, destRoot string) {
	rec.Folder = rec.FolderName()
	rec.FileName = rec.AudioFileName()

	dir := filepath.Join(destRoot, rec.Folder)
	if err := ioutils.EnsureDir(dir); err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("cannot create folder %s: %v", dir, err), Level: LevelError})
		return
	}

	destPath := filepath.Join(dir, rec.FileName)
	if _, err := os.Stat(destPath); err == nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("already downloaded: %s", rec.FileName), Level: LevelVerbose})
		rec.DownloadDate = e.stamp()
		return
	}

	if err := e.client.DownloadFile(ctx, rec.AudioURL, destPath, e.timeout, nil); err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("download failed for %q (id %s): %v", rec.Title, rec.TrackID, err), Level: LevelWarning})
		return
	}

	rec.DownloadDate = e.stamp()

	if e.modifyTags {
		if err := e.tagger.SaveTags(destPath, rec); err != nil {
			e.progress(ProgressEvent{Message: fmt.Sprintf("tagging failed for %s: %v", rec.FileName, err), Level: LevelWarning})
		}
	}

	e.progress(ProgressEvent{Message: fmt.Sprintf("downloaded: %s/%s", rec.Folder, rec.FileName), Level: LevelVerbose})
}

// stamp returns the locale-independent, date-only download stamp.
func (e *Engine) stamp() string {
	return e.now().Format("2006-01-02")
}

func (e *Engine) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
