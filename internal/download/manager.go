package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/vgomes/discografia-dl/internal/config"
	"github.com/vgomes/discografia-dl/internal/discografia"
	httpclient "github.com/vgomes/discografia-dl/internal/http"
	ioutils "github.com/vgomes/discografia-dl/internal/io"
	"github.com/vgomes/discografia-dl/internal/model"
	"github.com/vgomes/discografia-dl/internal/report"
)

// ErrNoTracks is returned when an extraction produced no records, either
// because the identifier matched nothing or because the tracklist fetch
// failed outright.
var ErrNoTracks = errors.New("no tracks extracted")

var (
	playlistURLPattern = regexp.MustCompile(`/playlists/(\d+)/`)
	numericPattern     = regexp.MustCompile(`^\d+$`)
)

// PlaylistID reduces user input to the numeric playlist id: either the
// value already is one, or it is a playlist URL carrying it in the path,
// like https://discografiabrasileira.com.br/playlists/247664/samba-do-sindicato.
func PlaylistID(value string) (string, error) {
	value = strings.TrimSpace(value)
	if numericPattern.MatchString(value) {
		return value, nil
	}
	if m := playlistURLPattern.FindStringSubmatch(value); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("cannot find a playlist id in %q", value)
}

// Result summarizes one completed playlist or author run.
type Result struct {
	// Records is the final annotated collection, as persisted.
	Records []model.TrackRecord

	// Downloaded counts the records whose audio file exists on disk.
	Downloaded int

	// MetadataReport and CompleteReport are the written report paths,
	// empty when report saving is disabled.
	MetadataReport string
	CompleteReport string
}

// Manager coordinates the full pipeline for one run: extraction, the
// download-and-audit stage, and report writing.
//
// Everything runs sequentially; the full track list is built in memory
// before any audio download starts.
type Manager struct {
	// DryRun skips the download stage: extraction runs and the metadata
	// report is written, but no audio is fetched and no audit report is
	// produced. Set it before calling RunPlaylist or RunAuthor.
	DryRun bool

	settings   *config.Settings
	extractor  *discografia.Extractor
	engine     *Engine
	onProgress func(ProgressEvent)
}

// NewManager creates a Manager from settings and a progress callback.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := httpclient.NewClient(map[string]string{
		"User-Agent":       settings.UserAgent,
		"X-Requested-With": settings.XRequestedWith,
	})

	m := &Manager{
		settings:   settings,
		onProgress: onProgress,
	}

	m.extractor = discografia.NewExtractor(client, discografia.Endpoints{
		Tracklist: settings.TracklistURLTemplate,
		Content:   settings.ContentURLTemplate,
		Author:    settings.AuthorURLTemplate,
	}, discografia.Options{
		TracklistLimit: settings.TracklistLimit,
		MaxAuthorPages: settings.MaxAuthorPages,
		OnWarning: func(format string, args ...any) {
			m.progress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: LevelWarning})
		},
	})

	m.engine = NewEngine(client, EngineOptions{
		Timeout:    settings.DownloadTimeout(),
		ModifyTags: settings.ModifyTags,
		OnProgress: onProgress,
	})

	return m
}

// RunPlaylist extracts a playlist, downloads its audio and writes the
// reports.
func (m *Manager) RunPlaylist(ctx context.Context, playlistID string) (*Result, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("extracting playlist %s", playlistID), Level: LevelInfo})

	records, err := m.extractor.ExtractPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}

	return m.finishRun(ctx, "playlist_"+playlistID, records)
}

// RunAuthor extracts an author's full catalog, downloads its audio and
// writes the reports.
//
// A page-fetch failure mid-catalog is reported as a warning and the pages
// aggregated up to that point are still processed: partial extraction is a
// usable outcome.
func (m *Manager) RunAuthor(ctx context.Context, name string) (*Result, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("extracting catalog of %s", name), Level: LevelInfo})

	records, err := m.extractor.ExtractAuthor(ctx, name)
	if err != nil {
		if len(records) == 0 {
			return nil, fmt.Errorf("author %s: %w", name, err)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("author %s: continuing with %d tracks after error: %v", name, len(records), err), Level: LevelWarning})
	}

	return m.finishRun(ctx, "author_"+name, records)
}

// finishRun is the shared tail of both run modes: metadata report, the
// download stage, then the complete audit report.
func (m *Manager) finishRun(ctx context.Context, prefix string, records []model.TrackRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoTracks
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("extracted %d tracks", len(records)), Level: LevelInfo})

	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{}

	format := report.FormatCSV
	if m.settings.ReportXLSX {
		format = report.FormatXLSX
	}

	if m.settings.SaveReport {
		path := filepath.Join(m.settings.OutputDir, report.FileName(prefix, "metadata", time.Now(), format))
		if err := report.Write(path, records, model.MetadataColumns, format); err != nil {
			return nil, fmt.Errorf("writing metadata report: %w", err)
		}
		result.MetadataReport = path
		m.progress(ProgressEvent{Message: fmt.Sprintf("metadata report saved to %s", path), Level: LevelInfo})
	}

	if m.DryRun {
		result.Records = records
		m.progress(ProgressEvent{Message: fmt.Sprintf("dry run: extracted %d tracks, downloads skipped", len(records)), Level: LevelSuccess})
		return result, nil
	}

	m.progress(ProgressEvent{Message: "starting downloads", Level: LevelInfo})
	result.Records = m.engine.Run(ctx, records, m.settings.OutputDir)

	for i := range result.Records {
		if result.Records[i].DownloadDate != "" {
			result.Downloaded++
		}
	}

	if m.settings.SaveReport {
		path := filepath.Join(m.settings.OutputDir, report.FileName(prefix, "complete", time.Now(), format))
		if err := report.Write(path, result.Records, model.Columns, format); err != nil {
			return nil, fmt.Errorf("writing audit report: %w", err)
		}
		result.CompleteReport = path
		m.progress(ProgressEvent{Message: fmt.Sprintf("audit report saved to %s", path), Level: LevelInfo})
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("downloaded %d/%d tracks", result.Downloaded, len(result.Records)), Level: LevelSuccess})
	return result, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
