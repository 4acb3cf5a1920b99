package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vgomes/discografia-dl/internal/config"
	"github.com/vgomes/discografia-dl/internal/report"
)

func testSettings(baseURL, outputDir string) *config.Settings {
	settings := config.DefaultSettings()
	settings.TracklistURLTemplate = baseURL + "/tracklist/{playlistId}/pp/{limit}"
	settings.ContentURLTemplate = baseURL + "/content/{dataId}"
	settings.AuthorURLTemplate = baseURL + "/author/{authorName}"
	settings.OutputDir = outputDir
	settings.ReportXLSX = false
	settings.ModifyTags = false
	return settings
}

func pipelineServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	var audioRequests int
	mux := http.NewServeMux()
	mux.HandleFunc("/tracklist/247664/pp/500", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<div class="track">
	<button class="play-bttn" data-id="62582"></button>
	<div class="track-name"><a href="/fonograma/62582">É MATO</a></div>
	<div class="track-author"><a>Wilson Batista</a> <a>Alvaiade</a></div>
</div>
<div class="track">
	<button class="play-bttn" data-id="62583"></button>
	<div class="track-name"><a href="/fonograma/62583">Oh! Seu Oscar</a></div>
	<div class="track-author"><a>Wilson Batista</a> <a>Ataulfo Alves</a></div>
</div>`)
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/content/")
		fmt.Fprintf(w, `{"audio":[{"contentUrl":[{"@value":"%s/audio/%s.mp3"}]}]}`, "http://"+r.Host, id)
	})
	mux.HandleFunc("/audio/", func(w http.ResponseWriter, r *http.Request) {
		audioRequests++
		w.Write([]byte("mp3 bytes for " + r.URL.Path))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &audioRequests
}

func TestManagerRunPlaylist(t *testing.T) {
	srv, _ := pipelineServer(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	manager := NewManager(testSettings(srv.URL, outputDir), nil)

	result, err := manager.RunPlaylist(context.Background(), "247664")
	if err != nil {
		t.Fatalf("RunPlaylist failed: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if result.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2", result.Downloaded)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "Wilson Batista", "e-mato_62582.mp3")); err != nil {
		t.Errorf("first audio file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Wilson Batista", "oh-seu-oscar_62583.mp3")); err != nil {
		t.Errorf("second audio file missing: %v", err)
	}

	// Metadata report: written before the download stage, no audit fields.
	metadata, err := report.ReadFile(result.MetadataReport)
	if err != nil {
		t.Fatalf("reading metadata report: %v", err)
	}
	if len(metadata) != 2 {
		t.Errorf("metadata report has %d rows, want 2", len(metadata))
	}
	if metadata[0].DownloadDate != "" {
		t.Errorf("metadata report carries a download date: %q", metadata[0].DownloadDate)
	}

	// Complete report: every successfully downloaded record is stamped.
	complete, err := report.ReadFile(result.CompleteReport)
	if err != nil {
		t.Fatalf("reading audit report: %v", err)
	}
	for i := range complete {
		if complete[i].DownloadDate == "" {
			t.Errorf("audit report row %d lacks a download date", i)
		}
		if complete[i].Folder != "Wilson Batista" {
			t.Errorf("audit report row %d folder = %q", i, complete[i].Folder)
		}
	}
}

func TestManagerRunPlaylistNoTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<div>vazio</div>")
	}))
	defer srv.Close()

	manager := NewManager(testSettings(srv.URL, t.TempDir()), nil)

	_, err := manager.RunPlaylist(context.Background(), "247664")
	if !errors.Is(err, ErrNoTracks) {
		t.Errorf("error = %v, want ErrNoTracks", err)
	}
}

func TestManagerRunAuthorPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/author/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `
<div class="track">
	<button class="play-bttn" data-id="1"></button>
	<div class="track-name"><a>Primeira</a></div>
	<div class="track-author"><a>Noel Rosa</a></div>
</div>
<a rel="next" href="/author/page2">2</a>`)
	})
	mux.HandleFunc("/author/page2", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"audio":[{"contentUrl":[{"@value":"%s/audio/1.mp3"}]}]}`, "http://"+r.Host)
	})
	mux.HandleFunc("/audio/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var warned bool
	manager := NewManager(testSettings(srv.URL, filepath.Join(t.TempDir(), "out")), func(event ProgressEvent) {
		if event.Level == LevelWarning {
			warned = true
		}
	})

	result, err := manager.RunAuthor(context.Background(), "Noel Rosa")
	if err != nil {
		t.Fatalf("partial extraction must still complete the run, got %v", err)
	}
	if !warned {
		t.Error("expected a warning about the aborted pagination walk")
	}
	if len(result.Records) != 1 || result.Downloaded != 1 {
		t.Errorf("got %d records / %d downloaded, want 1/1", len(result.Records), result.Downloaded)
	}
}

func TestManagerDryRun(t *testing.T) {
	srv, audioRequests := pipelineServer(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	manager := NewManager(testSettings(srv.URL, outputDir), nil)
	manager.DryRun = true

	result, err := manager.RunPlaylist(context.Background(), "247664")
	if err != nil {
		t.Fatalf("RunPlaylist failed: %v", err)
	}

	if *audioRequests != 0 {
		t.Errorf("made %d audio requests, want 0", *audioRequests)
	}
	if result.Downloaded != 0 {
		t.Errorf("Downloaded = %d, want 0", result.Downloaded)
	}
	if result.CompleteReport != "" {
		t.Errorf("audit report written on a dry run: %q", result.CompleteReport)
	}

	// The metadata report is still the run's deliverable.
	metadata, err := report.ReadFile(result.MetadataReport)
	if err != nil {
		t.Fatalf("reading metadata report: %v", err)
	}
	if len(metadata) != 2 {
		t.Errorf("metadata report has %d rows, want 2", len(metadata))
	}
	if len(result.Records) != 2 {
		t.Errorf("got %d records, want 2", len(result.Records))
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			t.Errorf("dry run created download folder %s", entry.Name())
		}
	}
}

func TestManagerNoReportMode(t *testing.T) {
	srv, _ := pipelineServer(t)

	settings := testSettings(srv.URL, filepath.Join(t.TempDir(), "out"))
	settings.SaveReport = false

	manager := NewManager(settings, nil)

	result, err := manager.RunPlaylist(context.Background(), "247664")
	if err != nil {
		t.Fatalf("RunPlaylist failed: %v", err)
	}
	if result.MetadataReport != "" || result.CompleteReport != "" {
		t.Errorf("reports written despite save_report=false: %q, %q", result.MetadataReport, result.CompleteReport)
	}
	if result.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2", result.Downloaded)
	}
}
