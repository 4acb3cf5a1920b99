package discografia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	httpclient "github.com/vgomes/discografia-dl/internal/http"
	"github.com/vgomes/discografia-dl/internal/model"
)

const trackFragment = `
<div class="track">
	<button class="play-bttn" data-id="62582"></button>
	<div class="track-name"><a href="/fonograma/62582">É MATO</a></div>
	<div class="track-author"><a>Wilson Batista</a> <a>Alvaiade</a></div>
	<div class="track-performer"><a>Odete Amaral</a></div>
	<div class="track-duration"><a>Odeon 12071</a></div>
	<div class="track-year">1941</div>
	<div class="properties">
		<div class="property-label">gravacao</div>
		<div class="property-value">13 Outubro 1941</div>
		<div class="property-label">lancamento</div>
		<div class="property-value">Dezembro 1941</div>
	</div>
</div>`

func firstTrack(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	sel := doc.Find(trackSelector).First()
	if sel.Length() == 0 {
		t.Fatal("fixture has no div.track")
	}
	return sel
}

func TestParseTrackFragment(t *testing.T) {
	rec := ParseTrackFragment(firstTrack(t, trackFragment))

	if rec.TrackID != "62582" {
		t.Errorf("TrackID = %q, want %q", rec.TrackID, "62582")
	}
	if rec.Title != "É Mato" {
		t.Errorf("Title = %q, want %q", rec.Title, "É Mato")
	}
	if got := rec.AuthorsDisplay(); got != "Wilson Batista / Alvaiade" {
		t.Errorf("authors = %q, want %q", got, "Wilson Batista / Alvaiade")
	}
	if got := rec.PerformersDisplay(); got != "Odete Amaral" {
		t.Errorf("performers = %q, want %q", got, "Odete Amaral")
	}
	if rec.Album != "Odeon 12071" {
		t.Errorf("Album = %q, want %q", rec.Album, "Odeon 12071")
	}
	if rec.AlbumReleaseYear != "1941" {
		t.Errorf("AlbumReleaseYear = %q, want %q", rec.AlbumReleaseYear, "1941")
	}
	if rec.RecordingDate != "13 Outubro 1941" {
		t.Errorf("RecordingDate = %q, want %q", rec.RecordingDate, "13 Outubro 1941")
	}
	if rec.ReleaseDate != "Dezembro 1941" {
		t.Errorf("ReleaseDate = %q, want %q", rec.ReleaseDate, "Dezembro 1941")
	}
	if rec.SourceURL != "/fonograma/62582" {
		t.Errorf("SourceURL = %q, want %q", rec.SourceURL, "/fonograma/62582")
	}
	if rec.AudioURL != "" {
		t.Errorf("AudioURL = %q, want empty before resolution", rec.AudioURL)
	}
}

func TestParseTrackFragmentDefaults(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		check func(t *testing.T, rec model.TrackRecord)
	}{
		{
			name: "missing title falls back to sentinel",
			html: `<div class="track"><button class="play-bttn" data-id="1"></button></div>`,
			check: func(t *testing.T, rec model.TrackRecord) {
				if rec.Title != model.UnknownTitle {
					t.Errorf("Title = %q, want %q", rec.Title, model.UnknownTitle)
				}
			},
		},
		{
			name: "missing play button leaves id empty",
			html: `<div class="track"><div class="track-name"><a>Deixa Falar</a></div></div>`,
			check: func(t *testing.T, rec model.TrackRecord) {
				if rec.TrackID != "" {
					t.Errorf("TrackID = %q, want empty", rec.TrackID)
				}
				if rec.Title != "Deixa Falar" {
					t.Errorf("Title = %q, want %q", rec.Title, "Deixa Falar")
				}
			},
		},
		{
			name: "missing labels leave dates empty",
			html: `<div class="track"><div class="track-name"><a>Deixa Falar</a></div></div>`,
			check: func(t *testing.T, rec model.TrackRecord) {
				if rec.RecordingDate != "" || rec.ReleaseDate != "" {
					t.Errorf("dates = (%q, %q), want empty", rec.RecordingDate, rec.ReleaseDate)
				}
			},
		},
		{
			name: "missing siblings leave album and year empty",
			html: `<div class="track"><div class="track-name"><a>Deixa Falar</a></div></div>`,
			check: func(t *testing.T, rec model.TrackRecord) {
				if rec.Album != "" || rec.AlbumReleaseYear != "" {
					t.Errorf("album/year = (%q, %q), want empty", rec.Album, rec.AlbumReleaseYear)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ParseTrackFragment(firstTrack(t, tt.html)))
		})
	}
}

// testEndpoints routes all three templates at a test server.
func testEndpoints(baseURL string) Endpoints {
	return Endpoints{
		Tracklist: baseURL + "/tracklist/{playlistId}/pp/{limit}",
		Content:   baseURL + "/content/{dataId}",
		Author:    baseURL + "/author/{authorName}",
	}
}

func contentJSON(audioURL string) string {
	return fmt.Sprintf(`{"audio":[{"contentUrl":[{"@value":%q}]}]}`, audioURL)
}

func trackHTML(id, title string) string {
	return fmt.Sprintf(`
<div class="track">
	<button class="play-bttn" data-id="%s"></button>
	<div class="track-name"><a>%s</a></div>
	<div class="track-author"><a>Wilson Batista</a></div>
</div>`, id, title)
}

func TestExtractPlaylist(t *testing.T) {
	var tracklistCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/tracklist/247664/pp/500", func(w http.ResponseWriter, r *http.Request) {
		tracklistCalls++
		fmt.Fprint(w, "<div>"+trackHTML("1", "Primeira")+trackHTML("2", "Segunda")+"</div>")
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/content/")
		fmt.Fprint(w, contentJSON("https://cdn.example.com/audio/"+id+".mp3"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ex := NewExtractor(httpclient.NewClient(nil), testEndpoints(srv.URL), Options{})

	records, err := ex.ExtractPlaylist(context.Background(), "247664")
	if err != nil {
		t.Fatalf("ExtractPlaylist failed: %v", err)
	}
	if tracklistCalls != 1 {
		t.Errorf("tracklist fetched %d times, want 1", tracklistCalls)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Title != "Primeira" || records[1].Title != "Segunda" {
		t.Errorf("source order not preserved: %q, %q", records[0].Title, records[1].Title)
	}
	if records[0].AudioURL != "https://cdn.example.com/audio/1.mp3" {
		t.Errorf("AudioURL = %q", records[0].AudioURL)
	}
}

func TestExtractPlaylistFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ex := NewExtractor(httpclient.NewClient(nil), testEndpoints(srv.URL), Options{})

	records, err := ex.ExtractPlaylist(context.Background(), "247664")
	if err == nil {
		t.Fatal("expected error for failed tracklist fetch")
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestExtractPlaylistAudioLookupFailureIsNonFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tracklist/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, trackHTML("1", "Primeira"))
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var warnings []string
	ex := NewExtractor(httpclient.NewClient(nil), testEndpoints(srv.URL), Options{
		OnWarning: func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		},
	})

	records, err := ex.ExtractPlaylist(context.Background(), "247664")
	if err != nil {
		t.Fatalf("ExtractPlaylist failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].AudioURL != "" {
		t.Errorf("AudioURL = %q, want empty", records[0].AudioURL)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the failed audio lookup")
	}
}

func TestExtractAuthorPagination(t *testing.T) {
	var pagesFetched []string
	mux := http.NewServeMux()
	mux.HandleFunc("/author/", func(w http.ResponseWriter, r *http.Request) {
		pagesFetched = append(pagesFetched, r.URL.Path)
		fmt.Fprint(w, trackHTML("a1", "Um")+trackHTML("a2", "Dois")+`<a rel="next" href="/author/page2">2</a>`)
	})
	mux.HandleFunc("/author/page2", func(w http.ResponseWriter, r *http.Request) {
		pagesFetched = append(pagesFetched, r.URL.Path)
		fmt.Fprint(w, trackHTML("a3", "Três")+`<a href="/author/page3">Próxima página</a>`)
	})
	mux.HandleFunc("/author/page3", func(w http.ResponseWriter, r *http.Request) {
		pagesFetched = append(pagesFetched, r.URL.Path)
		fmt.Fprint(w, "<div>sem faixas</div>")
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contentJSON("https://cdn.example.com/a.mp3"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ex := NewExtractor(httpclient.NewClient(nil), testEndpoints(srv.URL), Options{})

	records, err := ex.ExtractAuthor(context.Background(), "Nilton Bastos")
	if err != nil {
		t.Fatalf("ExtractAuthor failed: %v", err)
	}
	if len(pagesFetched) != 3 {
		t.Errorf("fetched %d pages (%v), want exactly 3", len(pagesFetched), pagesFetched)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	wantTitles := []string{"Um", "Dois", "Três"}
	for i, want := range wantTitles {
		if records[i].Title != want {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, want)
		}
	}
}

func TestExtractAuthorPageCap(t *testing.T) {
	var pagesFetched int
	mux := http.NewServeMux()
	mux.HandleFunc("/author/", func(w http.ResponseWriter, r *http.Request) {
		pagesFetched++
		// Every page links to itself: a pagination cycle.
		fmt.Fprint(w, trackHTML(fmt.Sprintf("t%d", pagesFetched), "Faixa")+`<a rel="next" href="/author/Ciclo">next</a>`)
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contentJSON("https://cdn.example.com/a.mp3"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var warned bool
	ex := NewExtractor(httpclient.NewClient(nil), testEndpoints(srv.URL), Options{
		MaxAuthorPages: 2,
		OnWarning:      func(string, ...any) { warned = true },
	})

	records, err := ex.ExtractAuthor(context.Background(), "Ciclo")
	if err != nil {
		t.Fatalf("truncation must not be an error, got %v", err)
	}
	if pagesFetched != 2 {
		t.Errorf("fetched %d pages, want 2", pagesFetched)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
	if !warned {
		t.Error("expected a truncation warning")
	}
}

func TestExtractAuthorPartialOnFetchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/author/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, trackHTML("a1", "Um")+`<a rel="next" href="/author/page2">2</a>`)
	})
	mux.HandleFunc("/author/page2", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/content/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contentJSON("https://cdn.example.com/a.mp3"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ex := NewExtractor(httpclient.NewClient(nil), testEndpoints(srv.URL), Options{})

	records, err := ex.ExtractAuthor(context.Background(), "Nilton Bastos")
	if err == nil {
		t.Fatal("expected error for failed page fetch")
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want the 1 aggregated before the failure", len(records))
	}
}

func TestEndpointsEscapeAuthorName(t *testing.T) {
	e := testEndpoints("https://example.com")
	got := e.AuthorURL("Nilton Bastos")
	if !strings.Contains(got, "Nilton%20Bastos") {
		t.Errorf("AuthorURL = %q, want the name URL-encoded", got)
	}
}
