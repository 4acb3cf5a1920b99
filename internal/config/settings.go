package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Settings holds all configuration options.
type Settings struct {
	// Endpoint templates. Placeholders are substituted by the discografia
	// package: {playlistId}, {limit}, {dataId}, {authorName}.
	TracklistURLTemplate string `json:"tracklist_url_template"`
	ContentURLTemplate   string `json:"content_url_template"`
	AuthorURLTemplate    string `json:"author_url_template"`

	// Request headers sent with every metadata call. The tracklist
	// endpoints only answer fragment requests, hence X-Requested-With.
	UserAgent      string `json:"user_agent"`
	XRequestedWith string `json:"x_requested_with"`

	// Extraction limits
	TracklistLimit int `json:"tracklist_limit"`
	MaxAuthorPages int `json:"max_author_pages"`

	// Download settings
	OutputDir              string  `json:"output_dir"`
	DownloadTimeoutSeconds float64 `json:"download_timeout_seconds"`

	// Report settings
	SaveReport bool `json:"save_report"`
	ReportXLSX bool `json:"report_xlsx"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		TracklistURLTemplate: "https://discografiabrasileira.com.br/fonograma/@relationById/{playlistId}/@type/MusicRecording/@orderBy/@.@order/@orderDir/asc/@pp/{limit}/p/1?shiro_content=true",
		ContentURLTemplate:   "https://discografiabrasileira.com.br/api/1.0/content/{dataId}?fields=_id,name,audio[contentUrl;duration],creator[_id;name],recordingOf[_id;name;author[_id;name]]",
		AuthorURLTemplate:    "https://discografiabrasileira.com.br/fonograma/xAuthor/{authorName}/@property/audio/",

		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
		XRequestedWith: "XMLHttpRequest",

		TracklistLimit: 500,
		MaxAuthorPages: 100,

		OutputDir:              filepath.Join(homeDir, "Downloads", "db_downloads"),
		DownloadTimeoutSeconds: 60,

		SaveReport: true,
		ReportXLSX: true,

		ModifyTags: true,
	}
}

// DownloadTimeout returns the bounded timeout applied to each audio
// download. Metadata fetches are deliberately not governed by it.
func (s *Settings) DownloadTimeout() time.Duration {
	return time.Duration(s.DownloadTimeoutSeconds * float64(time.Second))
}

// Validate reports configuration values that would break an extraction run.
func (s *Settings) Validate() error {
	if s.TracklistLimit <= 0 {
		return fmt.Errorf("tracklist_limit must be positive, got %d", s.TracklistLimit)
	}
	if s.MaxAuthorPages <= 0 {
		return fmt.Errorf("max_author_pages must be positive, got %d", s.MaxAuthorPages)
	}
	if s.DownloadTimeoutSeconds <= 0 {
		return fmt.Errorf("download_timeout_seconds must be positive, got %g", s.DownloadTimeoutSeconds)
	}
	return nil
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
