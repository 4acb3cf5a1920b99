// Package config provides configuration management for discografia-dl.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values (endpoint templates, headers, limits)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Downloads/db_downloads
//	// Author pagination capped at 100 pages
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.OutputDir = "/music/db_downloads"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Tracklist, content-API and author endpoint URL templates
//   - Request headers injected into every metadata call
//   - Pagination and page-size limits
//   - Download destination and per-file timeout
//   - Report format and ID3 tag modification
package config
